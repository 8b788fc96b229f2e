// Package hashindex caches SHA-1 file hashes keyed by (path, size, mtime)
// so the materializer does not rehash unchanged files on every pass
// (SPEC_FULL.md §10.5). It is backed by github.com/ncruces/go-sqlite3, the
// same CGo-free embedded driver internal/turso/db used for its query cache,
// opened and tuned the same way: WAL journal mode, a short busy timeout,
// and a minimal fixed schema.
//
// Deleting the index file never changes observable synchronizer behavior;
// a missing entry just falls back to hashing the file directly.
package hashindex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/copyq/itemsync/internal/item"
)

// Index is a persistent cache mapping a file's (path, size, mtime) to its
// previously computed content hash.
type Index struct {
	conn *sql.DB
}

// Open creates or opens the cache database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("hashindex: create directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("hashindex: open: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("hashindex: ping: %w", err)
	}

	conn.SetMaxOpenConns(1)

	idx := &Index{conn: conn}
	if err := idx.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return idx, nil
}

// OpenMemory opens an in-memory cache, used by tests and by callers that
// want per-process caching without touching disk.
func OpenMemory() (*Index, error) {
	conn, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		return nil, fmt.Errorf("hashindex: open memory db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	idx := &Index{conn: conn}
	if err := idx.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := idx.conn.Exec(p); err != nil {
			return fmt.Errorf("hashindex: %s: %w", p, err)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS file_hashes (
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		mtime_unix_nano INTEGER NOT NULL,
		sha1_hex TEXT NOT NULL,
		PRIMARY KEY (path, size, mtime_unix_nano)
	);
	`
	if _, err := idx.conn.Exec(schema); err != nil {
		return fmt.Errorf("hashindex: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (idx *Index) Close() error {
	return idx.conn.Close()
}

// Lookup returns the cached hash for path at the given size/mtime, if any.
func (idx *Index) Lookup(ctx context.Context, path string, size int64, mtime time.Time) (item.Hash, bool) {
	var hex string
	err := idx.conn.QueryRowContext(ctx,
		`SELECT sha1_hex FROM file_hashes WHERE path = ? AND size = ? AND mtime_unix_nano = ?`,
		path, size, mtime.UnixNano(),
	).Scan(&hex)
	if err != nil {
		return "", false
	}
	return item.Hash(hex), true
}

// Store records the hash of path at its current size/mtime, replacing any
// prior entry for that exact key.
func (idx *Index) Store(ctx context.Context, path string, size int64, mtime time.Time, h item.Hash) error {
	_, err := idx.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO file_hashes (path, size, mtime_unix_nano, sha1_hex) VALUES (?, ?, ?, ?)`,
		path, size, mtime.UnixNano(), string(h),
	)
	if err != nil {
		return fmt.Errorf("hashindex: store %s: %w", path, err)
	}
	return nil
}

// Forget removes every cached entry for path, used when a file is deleted
// or renamed so a stale entry can never be served for a different file
// that later reuses the name with a coincidentally matching size.
func (idx *Index) Forget(ctx context.Context, path string) error {
	_, err := idx.conn.ExecContext(ctx, `DELETE FROM file_hashes WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("hashindex: forget %s: %w", path, err)
	}
	return nil
}

// HashFile returns the content hash of path, serving it from the cache
// when the file's current size and modification time match a cached
// entry, and hashing + storing it otherwise.
func (idx *Index) HashFile(ctx context.Context, path string, sizeLimit int64) (item.Hash, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("hashindex: stat %s: %w", path, err)
	}
	if info.Size() > sizeLimit {
		return "", fmt.Errorf("hashindex: %s exceeds size limit", path)
	}

	if h, ok := idx.Lookup(ctx, path, info.Size(), info.ModTime()); ok {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashindex: read %s: %w", path, err)
	}
	h := item.Sum(data)
	if err := idx.Store(ctx, path, info.Size(), info.ModTime(), h); err != nil {
		return h, nil
	}
	return h, nil
}

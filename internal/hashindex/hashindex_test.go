package hashindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/copyq/itemsync/internal/item"
)

func TestHashFileCachesResult(t *testing.T) {
	idx, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer idx.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx := context.Background()
	h1, err := idx.HashFile(ctx, path, 1<<20)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h1 != item.Sum([]byte("hello")) {
		t.Fatalf("got %v, want hash of %q", h1, "hello")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	cached, ok := idx.Lookup(ctx, path, info.Size(), info.ModTime())
	if !ok || cached != h1 {
		t.Fatalf("expected cache hit with %v, got %v, %v", h1, cached, ok)
	}
}

func TestHashFileOverSizeLimit(t *testing.T) {
	idx, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer idx.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := idx.HashFile(context.Background(), path, 4); err == nil {
		t.Fatalf("expected size limit error")
	}
}

func TestForgetRemovesEntry(t *testing.T) {
	idx, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	mtime := time.Now()
	if err := idx.Store(ctx, "p", 1, mtime, item.Hash("deadbeef")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, ok := idx.Lookup(ctx, "p", 1, mtime); !ok {
		t.Fatalf("expected entry present before Forget")
	}
	if err := idx.Forget(ctx, "p"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, ok := idx.Lookup(ctx, "p", 1, mtime); ok {
		t.Fatalf("expected entry gone after Forget")
	}
}

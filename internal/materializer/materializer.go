// Package materializer implements the two reconciliation passes that keep
// a collection and a directory in sync: Direction W writes model rows to
// files, Direction R reads files back into model rows (SPEC_FULL.md §4.E).
// Both passes are meant to run with the caller holding the watcher's gate.
package materializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/copyq/itemsync/internal/basename"
	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/format"
	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/item"
	"github.com/copyq/itemsync/internal/scanner"
	"github.com/copyq/itemsync/internal/sidecar"
)

// Materializer holds the dependencies Direction W and Direction R need:
// the format registry that resolves MIME/extension pairs and the
// hash-elision cache that avoids rehashing unchanged files every pass.
type Materializer struct {
	Registry  *format.Registry
	Hashes    *hashindex.Index
	SizeLimit int64
}

// New returns a Materializer with the default size limit.
func New(reg *format.Registry, hashes *hashindex.Index) *Materializer {
	return &Materializer{Registry: reg, Hashes: hashes, SizeLimit: scanner.SizeLimit}
}

// WriteRows runs Direction W over the affected row indices (ascending
// order is not required of the caller; WriteRows sorts them). priorNames
// maps each row's stable identity to the basename it had before this pass,
// consulted to know whether a rename actually occurred; it is updated in
// place as rows are renamed.
func (m *Materializer) WriteRows(ctx context.Context, dir string, model collection.Model, affected []int, priorNames map[collection.RowID]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDirectoryCreateFailed, err)
	}

	sorted := append([]int(nil), affected...)
	sort.Ints(sorted)
	affectedSet := make(map[int]bool, len(sorted))
	for _, r := range sorted {
		affectedSet[r] = true
	}

	alloc := basename.New(m.Registry)
	for i := 0; i < model.Len(); i++ {
		if affectedSet[i] {
			continue
		}
		if it := model.Data(i); it != nil && it.Meta.BaseName != "" {
			alloc.Reserve(it.Meta.BaseName)
		}
	}

	for _, r := range sorted {
		it := model.Data(r)
		if it == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		oldName := it.Meta.BaseName
		id := model.RowID(r)
		prevName := oldName
		if p, ok := priorNames[id]; ok && p != "" {
			prevName = p
		}
		newName, err := alloc.Unique(oldName)
		if err != nil {
			return err
		}

		switch {
		case it.Meta.SyncPath != "" && it.Meta.SyncPath != dir:
			if err := copyExtMapFiles(it.Meta.SyncPath, dir, oldName, newName, it.Meta.ExtMap); err != nil {
				return err
			}
			it.Meta.SyncPath = ""
		case newName != prevName && prevName != "":
			if err := renameExtMapFiles(dir, prevName, newName, it.Meta.ExtMap); err != nil {
				return err
			}
		}

		it.Meta.BaseName = newName
		priorNames[id] = newName
		model.SetData(r, it, collection.Replace)
	}

	hashes, err := buildHashMultimap(dir, m.Hashes, m.SizeLimit)
	if err != nil {
		return err
	}

	for _, r := range sorted {
		it := model.Data(r)
		if it == nil {
			continue
		}
		if err := m.writeOneRow(ctx, dir, it, hashes); err != nil {
			return err
		}
		model.SetData(r, it, collection.Replace)
	}

	return nil
}

func (m *Materializer) writeOneRow(ctx context.Context, dir string, it *item.Item, hashes map[item.Hash][]string) error {
	base := it.Meta.BaseName
	oldExtMap := it.Meta.ExtMap
	newExtMap := make(map[string]string)
	residual := make(map[string][]byte)

	for mime, payload := range it.Payload {
		if h, ok := it.Meta.NoSave[mime]; ok && h == item.Sum(payload) {
			delete(it.Payload, mime)
			continue
		}

		ext, found := m.Registry.ByFormat(mime)
		_, hadPriorExt := oldExtMap[mime]
		if !found && !hadPriorExt {
			residual[mime] = payload
			continue
		}
		if !found {
			ext = oldExtMap[mime]
		}

		path := filepath.Join(dir, base+ext)
		if err := writeHashElided(path, payload, hashes); err != nil {
			return err
		}
		newExtMap[mime] = ext
	}

	if len(residual) > 0 {
		raw, err := sidecar.Encode(residual)
		if err != nil {
			return err
		}
		path := sidecar.Path(dir, base)
		if err := writeHashElided(path, raw, hashes); err != nil {
			return err
		}
		newExtMap[""] = sidecar.Suffix
	}

	if len(newExtMap) == 0 {
		newExtMap[""] = ""
	}

	for mime, ext := range oldExtMap {
		if mime == "" && ext == "" {
			continue
		}
		if _, stillPresent := newExtMap[mime]; stillPresent {
			continue
		}
		path := filepath.Join(dir, base+ext)
		_ = os.Remove(path)
		if m.Hashes != nil {
			_ = m.Hashes.Forget(ctx, path)
		}
	}

	it.Meta.ExtMap = newExtMap
	return nil
}

// writeHashElided writes data to path unless hashes already records path
// itself under data's content hash, in which case the write is skipped and
// that entry is removed so later rows in the same pass cannot also claim
// it. A file with the same hash at a different path does not elide the
// write.
func writeHashElided(path string, data []byte, hashes map[item.Hash][]string) error {
	h := item.Sum(data)
	if paths, ok := hashes[h]; ok {
		for i, p := range paths {
			if p == path {
				hashes[h] = append(paths[:i], paths[i+1:]...)
				return nil
			}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrFileWriteFailed, err)
	}
	return nil
}

func copyExtMapFiles(srcDir, dstDir, srcBase, dstBase string, extMap map[string]string) error {
	for _, ext := range extMap {
		src := filepath.Join(srcDir, srcBase+ext)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("%w: %v", errs.ErrFileReadFailed, err)
		}
		dst := filepath.Join(dstDir, dstBase+ext)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrFileWriteFailed, err)
		}
	}
	return nil
}

func renameExtMapFiles(dir, oldBase, newBase string, extMap map[string]string) error {
	for _, ext := range extMap {
		oldPath := filepath.Join(dir, oldBase+ext)
		newPath := filepath.Join(dir, newBase+ext)
		if err := os.Rename(oldPath, newPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("%w: %v", errs.ErrFileWriteFailed, err)
		}
	}
	return nil
}

// buildHashMultimap hashes every eligible regular file directly under dir,
// using idx to avoid rehashing files whose (size, mtime) are unchanged
// since the last pass.
func buildHashMultimap(dir string, idx *hashindex.Index, sizeLimit int64) (map[item.Hash][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrFileReadFailed, err)
	}

	out := make(map[item.Hash][]string)
	ctx := context.Background()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := e.Info()
		if err != nil || info.Size() > sizeLimit {
			continue
		}

		var h item.Hash
		if idx != nil {
			h, err = idx.HashFile(ctx, path, sizeLimit)
		} else {
			data, rerr := os.ReadFile(path)
			if rerr != nil {
				continue
			}
			h, err = item.Sum(data), nil
		}
		if err != nil {
			continue
		}
		out[h] = append(out[h], path)
	}
	return out, nil
}

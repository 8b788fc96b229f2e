package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/copyq/itemsync/internal/format"
)

func TestScanBucketsByBaseName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.txt", "hello")
	writeFile(t, dir, "note.html", "<p>hi</p>")
	writeFile(t, dir, "other.png", "\x89PNG")
	writeFile(t, dir, ".hiddenfile.txt", "nope")

	reg := format.NewRegistry(nil)
	buckets, err := Scan(dir, reg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	names := SortedNames(buckets)
	if len(names) != 2 || names[0] != "note" || names[1] != "other" {
		t.Fatalf("got %v", names)
	}

	for _, b := range buckets {
		if b.BaseName == "note" && len(b.Files) != 2 {
			t.Fatalf("note bucket: got %d files, want 2", len(b.Files))
		}
	}
}

func TestScanIgnoredByUserFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skip.bak", "junk")

	reg := format.NewRegistry([]format.Format{
		{Extensions: []string{".bak"}, ItemMime: "-"},
	})
	buckets, err := Scan(dir, reg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("got %d buckets, want 0", len(buckets))
	}
}

func TestOversized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, make([]byte, 16), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if Oversized(path) {
		t.Fatalf("16 bytes should not be oversized")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

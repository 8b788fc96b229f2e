// Package scanner lists the eligible files in a synchronized directory and
// buckets them by base name, following the scan rules in SPEC_FULL.md §4.F.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/copyq/itemsync/internal/format"
	"github.com/copyq/itemsync/internal/sidecar"
)

// SizeLimit is the maximum file size, in bytes, that is eligible for
// content-hash inclusion. Scan still places larger files in their buckets;
// Oversized reports them so callers record only a presence marker.
const SizeLimit = 10 << 20

// Bucket groups every file sharing one base name, along with the
// resolved extension/MIME for each.
type Bucket struct {
	BaseName string
	Files    []File
}

// File is one file found during a scan, with its extension resolved
// against the format registry.
type File struct {
	Path string
	Ext  string
	Mime string
}

// Scan lists dir's eligible regular files, resolves each to (base name,
// extension, MIME) via reg, and groups them into Buckets keyed by base
// name. Buckets preserve first-seen order of their base name, matching the
// original's directory-entry iteration order.
func Scan(dir string, reg *format.Registry) ([]Bucket, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanner: read dir %s: %w", dir, err)
	}

	byName := make(map[string]int)
	var buckets []Bucket

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		hidden, err := isHidden(path)
		if err != nil {
			continue
		}
		if hidden {
			continue
		}

		var ext, mime string
		var ignored bool
		switch {
		case strings.HasSuffix(name, sidecar.Suffix):
			ext = sidecar.Suffix
		default:
			ext, mime, ignored = reg.ByFile(name)
			if ignored {
				continue
			}
			if ext == "" && mime == "" {
				continue
			}
		}

		base := name[:len(name)-len(ext)]

		i, ok := byName[base]
		if !ok {
			i = len(buckets)
			buckets = append(buckets, Bucket{BaseName: base})
			byName[base] = i
		}
		buckets[i].Files = append(buckets[i].Files, File{Path: path, Ext: ext, Mime: mime})
	}

	return buckets, nil
}

// Oversized reports whether the file at path exceeds SizeLimit. Errors
// statting the file are treated as "not oversized" so a file that merely
// disappeared between directory listing and stat isn't flagged.
func Oversized(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > SizeLimit
}

// SortedNames returns the base names of buckets in lexical order, useful
// for deterministic iteration in tests and the inspect command.
func SortedNames(buckets []Bucket) []string {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.BaseName
	}
	sort.Strings(names)
	return names
}

// Package manifest reads and writes the per-tab persistence file that
// records which absolute file paths a synchronized tab owns (SPEC_FULL.md
// §4.D). It is distinct from the directory contents themselves: the
// manifest lives alongside the host collection's own tab data, not inside
// the synchronized directory.
package manifest

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/kvblob"
)

// header is the fixed tag every manifest blob begins with. A blob lacking
// it is not one of ours.
const header = "CopyQ_itemsync_tab"

// version is the current manifest schema version. Decode rejects any other
// value.
const version = 1

const (
	keyVersion    = "copyq_itemsync_version"
	keySavedFiles = "saved_files"
)

// Manifest is the decoded form of a tab's persistence file.
type Manifest struct {
	// SavedFiles lists the absolute paths this tab owned as of the last
	// save, in the order they were saved (reverse row order).
	SavedFiles []string
}

// Encode serializes m into the wire format: the fixed header string
// followed by a kvblob-encoded map of version and saved-file-list.
func Encode(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	kv := map[string][]byte{
		keyVersion:    []byte(strconv.Itoa(version)),
		keySavedFiles: encodePathList(m.SavedFiles),
	}
	if err := kvblob.Encode(&buf, kv); err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses raw manifest bytes. It returns errs.ErrManifestMismatch if
// the header tag or version does not match what Encode writes; callers
// then fall back to treating the tab as non-synced.
func Decode(raw []byte) (Manifest, error) {
	if !bytes.HasPrefix(raw, []byte(header)) {
		return Manifest{}, fmt.Errorf("%w: missing header", errs.ErrManifestMismatch)
	}
	rest := raw[len(header):]

	kv, err := kvblob.Decode(bytes.NewReader(rest))
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", errs.ErrManifestMismatch, err)
	}

	rawVersion, ok := kv[keyVersion]
	if !ok {
		return Manifest{}, fmt.Errorf("%w: missing version", errs.ErrManifestMismatch)
	}
	v, err := strconv.Atoi(string(rawVersion))
	if err != nil || v != version {
		return Manifest{}, fmt.Errorf("%w: version %q", errs.ErrManifestMismatch, rawVersion)
	}

	files := decodePathList(kv[keySavedFiles])
	return Manifest{SavedFiles: files}, nil
}

func encodePathList(paths []string) []byte {
	var buf bytes.Buffer
	for i, p := range paths {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(p)
	}
	return buf.Bytes()
}

func decodePathList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	parts := bytes.Split(raw, []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

// SortedUnique returns paths deduplicated and sorted lexically.
func SortedUnique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Package sidecar reads and writes the "_copyq.dat" files that hold MIME
// payloads with no extension mapping (SPEC_FULL.md §4.C, §6).
package sidecar

import (
	"bytes"
	"fmt"
	"os"

	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/kvblob"
)

// Suffix is the literal file name suffix that marks a sidecar file. Files
// ending in Suffix are never treated as item payload in their own right.
const Suffix = "_copyq.dat"

// Path returns the sidecar file path for the given base name within dir.
func Path(dir, baseName string) string {
	if dir == "" {
		return baseName + Suffix
	}
	return dir + string(os.PathSeparator) + baseName + Suffix
}

// Encode serializes residual into the kvblob wire format.
func Encode(residual map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := kvblob.Encode(&buf, residual); err != nil {
		return nil, fmt.Errorf("sidecar: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses raw sidecar bytes into a MIME-to-payload map.
func Decode(raw []byte) (map[string][]byte, error) {
	m, err := kvblob.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSidecarDecodeFailed, err)
	}
	return m, nil
}

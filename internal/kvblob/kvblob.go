// Package kvblob implements the length-prefixed binary key/value encoding
// shared by the sidecar and manifest formats (see SPEC_FULL.md §10.3). The
// format is deliberately minimal and owes nothing to any external codec: a
// big-endian uint32 entry count followed by that many (length, key bytes,
// length, value bytes) pairs. Keys are written in sorted order so two calls
// to Encode on equal maps always produce byte-identical output.
package kvblob

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// Encode writes m to w using the kvblob framing. Map iteration order is not
// relied upon; keys are sorted first.
func Encode(w io.Writer, m map[string][]byte) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := binary.Write(w, binary.BigEndian, uint32(len(keys))); err != nil {
		return fmt.Errorf("kvblob: write entry count: %w", err)
	}

	for _, k := range keys {
		if err := writeFrame(w, []byte(k)); err != nil {
			return fmt.Errorf("kvblob: write key %q: %w", k, err)
		}
		if err := writeFrame(w, m[k]); err != nil {
			return fmt.Errorf("kvblob: write value for key %q: %w", k, err)
		}
	}
	return nil
}

func writeFrame(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}

// Decode reads a kvblob-framed map from r. It returns an error wrapping
// io.ErrUnexpectedEOF if the stream is truncated mid-frame.
func Decode(r io.Reader) (map[string][]byte, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("kvblob: read entry count: %w", err)
	}

	m := make(map[string][]byte)
	for i := uint32(0); i < count; i++ {
		key, err := readFrame(r)
		if err != nil {
			return nil, fmt.Errorf("kvblob: read key %d: %w", i, err)
		}
		val, err := readFrame(r)
		if err != nil {
			return nil, fmt.Errorf("kvblob: read value %d: %w", i, err)
		}
		m[string(key)] = val
	}
	return m, nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

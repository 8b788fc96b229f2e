package kvblob

import (
	"bytes"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	in := map[string][]byte{
		"application/x-custom": {0x00, 0x01, 0xff},
		"text/plain":           []byte("hello"),
		"empty":                {},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("got %d entries, want %d", len(out), len(in))
	}
	for k, v := range in {
		got, ok := out[k]
		if !ok {
			t.Fatalf("missing key %q", k)
		}
		if !bytes.Equal(got, v) {
			t.Fatalf("key %q: got %v, want %v", k, got, v)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	m := map[string][]byte{"b": []byte("2"), "a": []byte("1"), "c": []byte("3")}

	var first, second bytes.Buffer
	if err := Encode(&first, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Encode(&second, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("encoding is not deterministic across calls")
	}
}

func TestEmptyMap(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string][]byte{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d entries, want 0", len(out))
	}
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string][]byte{"k": []byte("value")}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-2]

	_, err := Decode(bytes.NewReader(truncated))
	if err == nil {
		t.Fatalf("expected error decoding truncated blob")
	}
	if !errorIsEOFLike(err) {
		t.Fatalf("expected an EOF-like error, got %v", err)
	}
}

func errorIsEOFLike(err error) bool {
	for err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

package sidecar

import (
	"errors"
	"testing"

	"github.com/copyq/itemsync/internal/errs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	residual := map[string][]byte{
		"application/x-custom": {1, 2, 3},
	}

	raw, err := Encode(residual)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got["application/x-custom"]) != string([]byte{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte{0xff})
	if !errors.Is(err, errs.ErrSidecarDecodeFailed) {
		t.Fatalf("expected ErrSidecarDecodeFailed, got %v", err)
	}
}

func TestPath(t *testing.T) {
	got := Path("/tmp/tab", "note")
	want := "/tmp/tab/note" + Suffix
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

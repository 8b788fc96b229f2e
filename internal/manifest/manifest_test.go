package manifest

import (
	"errors"
	"testing"

	"github.com/copyq/itemsync/internal/errs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := Manifest{SavedFiles: []string{"/tab/a.txt", "/tab/b.png"}}

	raw, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.SavedFiles) != 2 || got.SavedFiles[0] != "/tab/a.txt" || got.SavedFiles[1] != "/tab/b.png" {
		t.Fatalf("got %v", got.SavedFiles)
	}
}

func TestDecodeEmptyFileList(t *testing.T) {
	raw, err := Encode(Manifest{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.SavedFiles) != 0 {
		t.Fatalf("got %v, want empty", got.SavedFiles)
	}
}

func TestDecodeBadHeader(t *testing.T) {
	_, err := Decode([]byte("not a manifest"))
	if !errors.Is(err, errs.ErrManifestMismatch) {
		t.Fatalf("expected ErrManifestMismatch, got %v", err)
	}
}

func TestDecodeWrongVersion(t *testing.T) {
	raw, err := Encode(Manifest{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Corrupting the version digit inside the encoded blob should trip the
	// version check rather than silently succeeding.
	corrupted := []byte(string(raw))
	for i := range corrupted {
		if corrupted[i] == '1' {
			corrupted[i] = '9'
			break
		}
	}
	_, err = Decode(corrupted)
	if !errors.Is(err, errs.ErrManifestMismatch) {
		t.Fatalf("expected ErrManifestMismatch, got %v", err)
	}
}

func TestSortedUnique(t *testing.T) {
	got := SortedUnique([]string{"b", "a", "b", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

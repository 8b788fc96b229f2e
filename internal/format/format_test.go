package format

import "testing"

func TestByFormatFallsBackToBuiltin(t *testing.T) {
	r := NewRegistry(nil)
	ext, ok := r.ByFormat("text/plain")
	if !ok || ext != ".txt" {
		t.Fatalf("got (%q, %v), want (\".txt\", true)", ext, ok)
	}
}

func TestByFormatPrefersUserEntry(t *testing.T) {
	r := NewRegistry([]Format{{Extensions: []string{"note"}, ItemMime: "text/plain"}})
	ext, ok := r.ByFormat("text/plain")
	if !ok || ext != ".note" {
		t.Fatalf("got (%q, %v), want (\".note\", true)", ext, ok)
	}
}

func TestByFileBuiltinMatch(t *testing.T) {
	r := NewRegistry(nil)
	ext, mime, ignored := r.ByFile("copyq_0000.txt")
	if ignored || ext != ".txt" || mime != "text/plain" {
		t.Fatalf("got (%q, %q, %v)", ext, mime, ignored)
	}
}

func TestByFileUserIgnoreMarker(t *testing.T) {
	r := NewRegistry([]Format{{Extensions: []string{".bak"}, ItemMime: "-"}})
	_, _, ignored := r.ByFile("copyq_0000.txt.bak")
	if !ignored {
		t.Fatal("expected the \"-\" mime marker to mark the file ignored")
	}
}

func TestByFileUserMimeWithoutExtensionFallthrough(t *testing.T) {
	r := NewRegistry([]Format{{Extensions: []string{"_note.txt"}, ItemMime: ""}})
	ext, mime, ignored := r.ByFile("copyq_0000_note.txt")
	if ignored || mime != "application/x-copyq-item-notes" {
		t.Fatalf("got (%q, %q, %v), want a fallthrough to the builtin table", ext, mime, ignored)
	}
}

func TestByFileNoMatchReturnsFalseFields(t *testing.T) {
	r := NewRegistry(nil)
	ext, mime, ignored := r.ByFile("copyq_0000.unknownext")
	if ignored || ext != "" || mime != "" {
		t.Fatalf("got (%q, %q, %v), want all-empty for an unrecognized extension", ext, mime, ignored)
	}
}

func TestFixExtensionsPrependsDot(t *testing.T) {
	got := FixExtensions([]string{"txt", ".png", "note"})
	want := []string{".txt", ".png", ".note"}
	for i, g := range got {
		if g != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIconFromBaseNamePrefersUserIcon(t *testing.T) {
	r := NewRegistry([]Format{{Extensions: []string{".note"}, Icon: "sticky-note"}})
	if got := r.IconFromBaseName("copyq_0000.note"); got != "sticky-note" {
		t.Fatalf("got %q, want %q", got, "sticky-note")
	}
}

func TestIconFromBaseNameFallsBackToFamily(t *testing.T) {
	r := NewRegistry(nil)
	if got := r.IconFromBaseName("photo.png"); got != "camera" {
		t.Fatalf("got %q, want %q", got, "camera")
	}
}

func TestIconFromMime(t *testing.T) {
	cases := map[string]string{
		"image/png":       "camera",
		"video/mp4":       "play-circle",
		"audio/mpeg":      "volume-up",
		"text/plain":      "file-text",
		"application/pdf": "",
	}
	for mime, want := range cases {
		if got := IconFromMime(mime); got != want {
			t.Fatalf("IconFromMime(%q) = %q, want %q", mime, got, want)
		}
	}
}

package item

import "testing"

func TestSumIsDeterministic(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Fatalf("got %q and %q, want equal hashes", a, b)
	}
	if Sum([]byte("hello")) == Sum([]byte("world")) {
		t.Fatal("expected distinct payloads to hash differently")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	it := New()
	it.Meta.BaseName = "copyq_0000"
	it.Meta.ExtMap = map[string]string{"text/plain": ".txt"}
	it.Meta.NoSave = map[string]Hash{"text/uri-list": Sum([]byte("uri"))}
	it.Payload["text/plain"] = []byte("hello")

	c := it.Clone()
	c.Payload["text/plain"][0] = 'H'
	c.Meta.ExtMap["text/plain"] = ".note"
	c.Meta.NoSave["text/uri-list"] = Hash("different")

	if string(it.Payload["text/plain"]) != "hello" {
		t.Fatalf("mutating the clone's payload affected the original: %q", it.Payload["text/plain"])
	}
	if it.Meta.ExtMap["text/plain"] != ".txt" {
		t.Fatalf("mutating the clone's ExtMap affected the original: %q", it.Meta.ExtMap["text/plain"])
	}
	if it.Meta.NoSave["text/uri-list"] == Hash("different") {
		t.Fatal("mutating the clone's NoSave affected the original")
	}
}

func TestHasUserDataAndHasFiles(t *testing.T) {
	it := New()
	if it.HasUserData() || it.HasFiles() {
		t.Fatal("a fresh item should have neither user data nor files")
	}
	it.Payload["text/plain"] = []byte("x")
	if !it.HasUserData() {
		t.Fatal("expected HasUserData once a payload is set")
	}
	it.Meta.BaseName = "copyq_0000"
	if !it.HasFiles() {
		t.Fatal("expected HasFiles once a basename is assigned")
	}
}

// Package item defines the typed record that replaces the original
// implementation's stringly-keyed variant map (see SPEC_FULL.md §9). An Item
// carries user-visible MIME payloads in Payload and synchronizer-internal
// bookkeeping in Meta; the two can never collide because Meta's fields are
// not MIME keys at all.
package item

import (
	"crypto/sha1"
	"encoding/hex"
)

// Hash is a SHA-1 digest, hex-encoded. It is used both to elide unchanged
// writes and to mark synthetic payloads that must never be written back.
type Hash string

// Sum computes the Hash of a byte payload.
func Sum(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// Meta holds the four reserved, synchronizer-internal fields. None of these
// are ever written to a file under their own name; only Item.Payload entries
// become files.
type Meta struct {
	// BaseName is the shared file stem for this item on disk. Nonempty and
	// unique within a tab once the item has been through a write pass.
	BaseName string

	// ExtMap maps a payload MIME to the extension it was (or will be)
	// written under. An entry with key "" and value "" marks "the
	// basename alone is this item's file" (no MIME has its own
	// extension); an entry with key "" and value sidecar.Suffix marks a
	// sidecar file as present.
	ExtMap map[string]string

	// NoSave maps a MIME to the hash of a payload that was synthesized
	// (not user data) and must not be persisted even though it appears in
	// Payload.
	NoSave map[string]Hash

	// SyncPath is set transiently when an item was copied from another
	// tab; it names that tab's directory so the next write pass can copy
	// (rather than rename) the underlying files.
	SyncPath string
}

// Item is one row: a set of MIME payloads plus the bookkeeping needed to
// keep it synchronized with disk.
type Item struct {
	Payload map[string][]byte
	Meta    Meta
}

// New returns an empty Item ready for payload assignment.
func New() *Item {
	return &Item{Payload: make(map[string][]byte)}
}

// Clone returns a deep copy of it, safe to mutate independently.
func (it *Item) Clone() *Item {
	c := &Item{
		Payload: make(map[string][]byte, len(it.Payload)),
		Meta: Meta{
			BaseName: it.Meta.BaseName,
			SyncPath: it.Meta.SyncPath,
		},
	}
	for k, v := range it.Payload {
		buf := make([]byte, len(v))
		copy(buf, v)
		c.Payload[k] = buf
	}
	if it.Meta.ExtMap != nil {
		c.Meta.ExtMap = make(map[string]string, len(it.Meta.ExtMap))
		for k, v := range it.Meta.ExtMap {
			c.Meta.ExtMap[k] = v
		}
	}
	if it.Meta.NoSave != nil {
		c.Meta.NoSave = make(map[string]Hash, len(it.Meta.NoSave))
		for k, v := range it.Meta.NoSave {
			c.Meta.NoSave[k] = v
		}
	}
	return c
}

// HasUserData reports whether the item carries any payload at all. An item
// that held only internal metadata (no MIME payloads ever set) is dropped
// by the loader when a tab is unsynced, per SPEC_FULL.md §4.H.
func (it *Item) HasUserData() bool {
	return len(it.Payload) > 0
}

// HasFiles reports whether the item has ever been associated with on-disk
// files, i.e. it carries a non-empty base name.
func (it *Item) HasFiles() bool {
	return it.Meta.BaseName != ""
}

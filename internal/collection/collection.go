// Package collection defines the Model interface the synchronizer consumes
// (SPEC_FULL.md §6, §10) and ships an in-memory reference implementation
// used by the CLI and by tests in place of a real GUI-backed collection.
package collection

import (
	"sync"

	"github.com/copyq/itemsync/internal/item"
)

// MergeMode controls how SetData combines a new payload into an existing
// row's data.
type MergeMode int

const (
	// Replace discards the row's existing payload before applying the new
	// one.
	Replace MergeMode = iota
	// Merge overlays the new payload onto the row's existing one, key by
	// key.
	Merge
)

// RowID is a stable per-row identity that survives insertions and removals
// elsewhere in the list, standing in for the original's persistent model
// index.
type RowID int64

// Listener receives the signals the watcher consumes from a Model
// (SPEC_FULL.md §6): row insertion and removal ranges, data-changed
// ranges, and the two lifecycle notifications that tear a watcher down.
type Listener interface {
	RowsInserted(first, last int)
	RowsRemoved(first, last int)
	DataChanged(first, last int)
	Unloaded()
	Destroyed()
}

// Model is the host collection contract the synchronizer is built against.
// A real GUI-backed collection and the in-memory Collection below both
// satisfy it.
type Model interface {
	TabName() string
	MaxItems() int

	SetDisabled(bool)
	SetDirty(bool)

	// InsertRow inserts it at position i, returning its newly assigned
	// RowID.
	InsertRow(i int, it *item.Item) RowID
	// RemoveRow removes the row at position i.
	RemoveRow(i int)
	// SetData stores it at position i according to mode.
	SetData(i int, it *item.Item, mode MergeMode)
	// Data returns the item at position i.
	Data(i int) *item.Item
	// Len returns the current row count.
	Len() int

	// RowID returns the stable identity of the row currently at position
	// i.
	RowID(i int) RowID
	// IndexOf returns the current position of the row with the given
	// identity, or ok=false if that row no longer exists.
	IndexOf(id RowID) (int, bool)

	// Subscribe registers l to receive future row/data/lifecycle
	// notifications, returning an unsubscribe function.
	Subscribe(l Listener) (unsubscribe func())
}

// Collection is a reference in-memory Model: an ordered slice of items plus
// a parallel slice of stable identities. It is safe for concurrent use.
type Collection struct {
	mu       sync.Mutex
	tabName  string
	maxItems int
	disabled bool
	dirty    bool

	rows   []*item.Item
	ids    []RowID
	nextID RowID

	listeners    map[int]Listener
	nextListener int
}

// New returns an empty Collection for the given tab name with maxItems as
// its row cap (0 means unbounded).
func New(tabName string, maxItems int) *Collection {
	return &Collection{tabName: tabName, maxItems: maxItems, listeners: make(map[int]Listener)}
}

// Subscribe registers l for future notifications. The returned function
// removes l; calling it more than once is a no-op.
func (c *Collection) Subscribe(l Listener) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Collection) broadcast(f func(Listener)) {
	c.mu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		f(l)
	}
}

// Unload notifies subscribers that the tab behind this collection was
// unloaded, matching the "unloaded" signal in the host collection
// contract.
func (c *Collection) Unload() {
	c.broadcast(func(l Listener) { l.Unloaded() })
}

// Destroy notifies subscribers that this collection is going away for
// good, matching the "destroyed" signal in the host collection contract.
func (c *Collection) Destroy() {
	c.broadcast(func(l Listener) { l.Destroyed() })
}

func (c *Collection) TabName() string { return c.tabName }
func (c *Collection) MaxItems() int   { return c.maxItems }

func (c *Collection) SetDisabled(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = v
}

func (c *Collection) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

func (c *Collection) SetDirty(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = v
}

func (c *Collection) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

func (c *Collection) InsertRow(i int, it *item.Item) RowID {
	c.mu.Lock()

	if i < 0 {
		i = 0
	}
	if i > len(c.rows) {
		i = len(c.rows)
	}

	c.nextID++
	id := c.nextID

	c.rows = append(c.rows, nil)
	copy(c.rows[i+1:], c.rows[i:])
	c.rows[i] = it

	c.ids = append(c.ids, 0)
	copy(c.ids[i+1:], c.ids[i:])
	c.ids[i] = id

	c.mu.Unlock()

	c.broadcast(func(l Listener) { l.RowsInserted(i, i) })
	return id
}

func (c *Collection) RemoveRow(i int) {
	c.mu.Lock()
	if i < 0 || i >= len(c.rows) {
		c.mu.Unlock()
		return
	}
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	c.ids = append(c.ids[:i], c.ids[i+1:]...)
	c.mu.Unlock()

	c.broadcast(func(l Listener) { l.RowsRemoved(i, i) })
}

func (c *Collection) SetData(i int, it *item.Item, mode MergeMode) {
	c.mu.Lock()
	if i < 0 || i >= len(c.rows) {
		c.mu.Unlock()
		return
	}
	if mode == Replace || c.rows[i] == nil {
		c.rows[i] = it
	} else {
		existing := c.rows[i]
		for k, v := range it.Payload {
			existing.Payload[k] = v
		}
		existing.Meta = it.Meta
	}
	c.mu.Unlock()

	c.broadcast(func(l Listener) { l.DataChanged(i, i) })
}

func (c *Collection) Data(i int) *item.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

func (c *Collection) RowID(i int) RowID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.ids) {
		return 0
	}
	return c.ids[i]
}

func (c *Collection) IndexOf(id RowID) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, rid := range c.ids {
		if rid == id {
			return i, true
		}
	}
	return 0, false
}

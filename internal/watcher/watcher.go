// Package watcher implements the FileWatcher engine (SPEC_FULL.md §4.G): a
// debounced, gated reconciliation loop binding one model to one directory.
// It is built directly on github.com/fsnotify/fsnotify, the same library and
// event-loop idiom the teacher repository uses for its own directory watcher
// (internal/turso/daemon/watcher.go, internal/turso/daemon/daemon.go).
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/format"
	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/item"
	"github.com/copyq/itemsync/internal/materializer"
)

// DebounceInterval is the default single-shot filesystem debounce delay,
// used when a FileWatcher is constructed with a zero debounce override. Any
// directory-changed or file-changed event restarts the timer, coalescing
// bursts of events into one direction-R pass.
const DebounceInterval = 2000 * time.Millisecond

// FileWatcher binds one model to one directory: it watches the directory
// (and every file it has previously touched) with fsnotify, runs Direction R
// on filesystem changes and Direction W on model changes, and uses a gate to
// keep its own writes from re-triggering itself.
type FileWatcher struct {
	path      string
	model     collection.Model
	mat       *materializer.Materializer
	log       *log.Logger
	debounceD time.Duration

	fsw  *fsnotify.Watcher
	gate *gate

	mu          sync.Mutex
	valid       bool
	priorNames  map[collection.RowID]string
	watchedSet  map[string]bool
	debounce    *time.Timer
	unsubscribe func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a FileWatcher bound to dir and model, but does not start it.
// Call Start to begin watching. debounceOverride sets the single-shot
// filesystem debounce delay (SPEC_FULL.md §10.6's config.Settings.DebounceMS,
// surfaced by the CLI's --debounce-ms flag or ISYNC_DEBOUNCE_MS); a zero value
// falls back to DebounceInterval.
func New(dir string, model collection.Model, reg *format.Registry, hashes *hashindex.Index, logger *log.Logger, debounceOverride time.Duration) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDirectoryCreateFailed, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	if debounceOverride <= 0 {
		debounceOverride = DebounceInterval
	}

	w := &FileWatcher{
		path:       dir,
		model:      model,
		mat:        materializer.New(reg, hashes),
		log:        logger,
		debounceD:  debounceOverride,
		fsw:        fsw,
		priorNames: make(map[collection.RowID]string),
		watchedSet: make(map[string]bool),
	}
	w.gate = newGate(func(muted bool) { w.model.SetDisabled(muted) })
	return w, nil
}

// Start runs the watcher's construction sequence (SPEC_FULL.md §4.G
// Construction): it watches the directory and every path in priorFiles,
// arms the debounce timer, runs Direction R over what's already there, and
// normalizes names with a Direction W pass if that hydration produced rows.
// It then subscribes to model signals and begins its background event loop.
func (w *FileWatcher) Start(ctx context.Context, priorFiles []string) error {
	if err := w.fsw.Add(w.path); err != nil {
		w.log.Printf("watcher: cannot watch %s: %v", w.path, err)
		w.mu.Lock()
		w.valid = false
		w.mu.Unlock()
		return fmt.Errorf("%w: %v", errs.ErrDirectoryCreateFailed, err)
	}
	w.mu.Lock()
	w.valid = true
	for _, p := range priorFiles {
		w.watch(p)
	}
	w.mu.Unlock()

	w.ctx, w.cancel = context.WithCancel(ctx)

	release := w.gate.Enter()
	err := w.mat.ReadDirectory(w.path, w.model)
	if err == nil && w.model.Len() > 0 {
		affected := make([]int, w.model.Len())
		for i := range affected {
			affected[i] = i
		}
		err = w.mat.WriteRows(w.ctx, w.path, w.model, affected, w.priorNames)
	}
	if err == nil {
		w.mu.Lock()
		for i := 0; i < w.model.Len(); i++ {
			if it := w.model.Data(i); it != nil {
				w.watchRowFiles(it)
			}
		}
		w.mu.Unlock()
	}
	release()
	if err != nil {
		w.log.Printf("watcher: initial reconciliation failed: %v", err)
		w.invalidate()
	}

	w.unsubscribe = w.model.Subscribe(w)

	w.mu.Lock()
	w.debounce = time.AfterFunc(w.debounceD, w.onDebounceFired)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.runFSEventLoop()

	return nil
}

// Stop tears the watcher down: it stops the background event loop,
// unsubscribes from the model, and releases its fsnotify watch set and
// debounce timer.
func (w *FileWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	_ = w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// Path returns the directory this watcher is bound to.
func (w *FileWatcher) Path() string { return w.path }

// Model returns the collection this watcher is bound to.
func (w *FileWatcher) Model() collection.Model { return w.model }

// Valid reports whether the watcher is still usable. A watcher becomes
// invalid after a directory-create failure or a write/copy/rename failure
// mid-batch; the host collection's saver is expected to fall through to its
// default persistence when this is false.
func (w *FileWatcher) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.valid
}

func (w *FileWatcher) invalidate() {
	w.mu.Lock()
	w.valid = false
	w.mu.Unlock()
}

func (w *FileWatcher) watch(path string) {
	if w.watchedSet[path] {
		return
	}
	if err := w.fsw.Add(path); err == nil {
		w.watchedSet[path] = true
	}
}

// watchRowFiles adds every file belonging to it's ExtMap to the fsnotify
// watch set, so later edits to files discovered after construction (rows
// hydrated during a direction-R pass, or written by a direction-W pass)
// wake the debouncer too. w.mu must be held by the caller.
func (w *FileWatcher) watchRowFiles(it *item.Item) {
	for _, ext := range it.Meta.ExtMap {
		if ext == "" {
			continue
		}
		w.watch(filepath.Join(w.path, it.Meta.BaseName+ext))
	}
}

func (w *FileWatcher) runFSEventLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.gate.Muted() {
				continue
			}
			w.restartDebounce()
			_ = event
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Printf("watcher: fsnotify error: %v", err)
		}
	}
}

func (w *FileWatcher) restartDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce == nil {
		w.debounce = time.AfterFunc(w.debounceD, w.onDebounceFired)
		return
	}
	w.debounce.Reset(w.debounceD)
}

// Rescan runs an out-of-band Direction R pass, used by the loader after a
// settings change for a tab whose watched path hasn't moved. The pass uses
// the format registry the watcher was created with.
func (w *FileWatcher) Rescan() {
	w.onDebounceFired()
}

// onDebounceFired runs Direction R, gated, matching "on timer fire, run
// direction R" in SPEC_FULL.md §4.G.
func (w *FileWatcher) onDebounceFired() {
	if w.gate.Muted() {
		return
	}
	release := w.gate.Enter()
	defer release()

	if err := w.mat.ReadDirectory(w.path, w.model); err != nil {
		w.log.Printf("watcher: direction-R pass failed for %s: %v", w.path, err)
		w.invalidate()
		return
	}

	w.mu.Lock()
	for i := 0; i < w.model.Len(); i++ {
		id := w.model.RowID(i)
		if it := w.model.Data(i); it != nil {
			w.priorNames[id] = it.Meta.BaseName
			w.watchRowFiles(it)
		}
	}
	w.mu.Unlock()
}

// RowsInserted implements collection.Listener: newly inserted rows are
// written to disk immediately, matching "row-inserted or data-changed
// triggers direction W on the affected range".
func (w *FileWatcher) RowsInserted(first, last int) { w.runDirectionW(first, last) }

// DataChanged implements collection.Listener.
func (w *FileWatcher) DataChanged(first, last int) { w.runDirectionW(first, last) }

// RowsRemoved implements collection.Listener: removal only prunes the
// row-identity to prior-basename map, per SPEC_FULL.md §4.G.
func (w *FileWatcher) RowsRemoved(first, last int) {
	if w.gate.Muted() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, name := range w.priorNames {
		if _, ok := w.model.IndexOf(id); !ok {
			delete(w.priorNames, id)
			_ = name
		}
	}
}

// Unloaded implements collection.Listener.
func (w *FileWatcher) Unloaded() { w.Stop() }

// Destroyed implements collection.Listener.
func (w *FileWatcher) Destroyed() { w.Stop() }

func (w *FileWatcher) runDirectionW(first, last int) {
	if w.gate.Muted() {
		return
	}
	release := w.gate.Enter()
	defer release()

	affected := make([]int, 0, last-first+1)
	for i := first; i <= last && i < w.model.Len(); i++ {
		affected = append(affected, i)
	}
	if len(affected) == 0 {
		return
	}

	w.mu.Lock()
	pn := w.priorNames
	w.mu.Unlock()

	if err := w.mat.WriteRows(w.ctx, w.path, w.model, affected, pn); err != nil {
		w.log.Printf("watcher: direction-W pass failed for %s: %v", w.path, err)
		w.invalidate()
		return
	}

	w.mu.Lock()
	for _, i := range affected {
		if i < w.model.Len() {
			if it := w.model.Data(i); it != nil {
				w.watchRowFiles(it)
			}
		}
	}
	w.mu.Unlock()
}

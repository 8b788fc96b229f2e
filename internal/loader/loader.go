// Package loader provides the façade binding tab names to directories and
// owning the lifecycle of their watchers (SPEC_FULL.md §4.H).
//
// The loader is responsible for reading and writing each tab's manifest,
// creating and tearing down FileWatchers as tabs are loaded, saved, or
// reconfigured, and fixing up an item's sync-related metadata on cross-tab
// copy and on user-requested removal.
//
// It does not itself talk to the filesystem scanner or the binary codecs;
// it delegates to internal/materializer, internal/manifest, and
// internal/watcher, and holds only the bookkeeping those packages need
// threaded across calls.
package loader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/errs"
	"github.com/copyq/itemsync/internal/format"
	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/item"
	"github.com/copyq/itemsync/internal/manifest"
	"github.com/copyq/itemsync/internal/watcher"
)

// Loader owns the tab_name -> path map, the model -> FileWatcher map, and
// the shared format registry and hash-index cache every watcher it creates
// is built against.
type Loader struct {
	mu sync.Mutex

	registry *format.Registry
	hashes   *hashindex.Index
	logger   *log.Logger
	debounce time.Duration

	paths    map[string]string
	watchers map[string]*watcher.FileWatcher
}

// New returns a Loader using reg and hashes for every watcher it creates.
// debounce overrides each watcher's filesystem debounce delay (§10.6's
// config.Settings.DebounceMS); zero falls back to watcher.DebounceInterval.
func New(reg *format.Registry, hashes *hashindex.Index, logger *log.Logger, debounce time.Duration) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		registry: reg,
		hashes:   hashes,
		logger:   logger,
		debounce: debounce,
		paths:    make(map[string]string),
		watchers: make(map[string]*watcher.FileWatcher),
	}
}

// SetPath records the configured directory for tabName. Passing an empty
// path unconfigures the tab.
func (l *Loader) SetPath(tabName, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if path == "" {
		delete(l.paths, tabName)
		return
	}
	l.paths[tabName] = path
}

// Path returns the configured directory for tabName, or "" if unconfigured.
func (l *Loader) Path(tabName string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paths[tabName]
}

// LoadTab implements the "on load tab" responsibility of §4.H: it reads the
// tab's manifest and, if the tab is configured to sync, creates and starts a
// watcher bound to the configured path, hydrating model from the manifest's
// file list. If the tab isn't configured to sync but the manifest still
// lists files, a watcher is created bound to the inferred parent directory,
// so later reconfiguration is detected. That watcher is the same full
// read/write watcher a configured tab gets; it has no read-only mode.
func (l *Loader) LoadTab(ctx context.Context, tabName, manifestPath string, model collection.Model) error {
	var files []string
	if raw, err := os.ReadFile(manifestPath); err == nil {
		m, err := manifest.Decode(raw)
		if err != nil {
			l.logger.Printf("loader: manifest decode failed for %s: %v", tabName, err)
		} else {
			files = m.SavedFiles
		}
	}

	path := l.Path(tabName)
	if path == "" && len(files) > 0 {
		path = filepath.Dir(files[0])
	}
	if path == "" {
		return nil
	}

	w, err := watcher.New(path, model, l.registry, l.hashes, l.logger, l.debounce)
	if err != nil {
		return err
	}
	if err := w.Start(ctx, files); err != nil {
		l.logger.Printf("loader: watcher start failed for tab %s: %v", tabName, err)
		return nil
	}

	l.mu.Lock()
	l.watchers[tabName] = w
	l.mu.Unlock()
	return nil
}

// SaveTab implements the "on save tab" responsibility: it locates the tab's
// watcher, and if it's missing or invalid returns an error so the host
// collection falls back to its own default persistence. Otherwise it writes
// a fresh manifest covering every <base><ext> in the model, in reverse row
// order (last row first), each path listed once.
func (l *Loader) SaveTab(tabName, manifestPath string, model collection.Model) error {
	l.mu.Lock()
	w, ok := l.watchers[tabName]
	l.mu.Unlock()

	if !ok || !w.Valid() {
		return fmt.Errorf("%w: tab %s has no valid watcher", errs.ErrModelGone, tabName)
	}

	path := l.Path(tabName)
	var files []string
	seen := make(map[string]bool)
	for i := model.Len() - 1; i >= 0; i-- {
		it := model.Data(i)
		if it == nil {
			continue
		}
		for _, ext := range it.Meta.ExtMap {
			p := filepath.Join(path, it.Meta.BaseName+ext)
			if ext == "" || seen[p] {
				continue
			}
			seen[p] = true
			files = append(files, p)
		}
	}

	m := manifest.Manifest{SavedFiles: files}
	raw, err := manifest.Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrFileWriteFailed, err)
	}
	return nil
}

// NewTab implements the "on new tab" responsibility: if tabName is
// configured to sync, it pre-populates a manifest at manifestPath with a
// time-sorted listing of the configured directory, then loads the tab.
func (l *Loader) NewTab(ctx context.Context, tabName, manifestPath string, model collection.Model) error {
	path := l.Path(tabName)
	if path != "" {
		entries, err := os.ReadDir(path)
		if err == nil {
			type stamped struct {
				path string
				mod  int64
			}
			var list []stamped
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				list = append(list, stamped{filepath.Join(path, e.Name()), info.ModTime().UnixNano()})
			}
			sort.Slice(list, func(i, j int) bool { return list[i].mod < list[j].mod })
			files := make([]string, len(list))
			for i, s := range list {
				files[i] = s.path
			}
			m := manifest.Manifest{SavedFiles: files}
			if raw, err := manifest.Encode(m); err == nil {
				_ = os.WriteFile(manifestPath, raw, 0o644)
			}
		}
	}
	return l.LoadTab(ctx, tabName, manifestPath, model)
}

// ApplySettingsChange implements the "on settings change" responsibility:
// for every tab whose configured path is unchanged, it triggers a
// direction-R pass. reg is used only by watchers created after this call;
// an existing watcher keeps the registry it was created with, so that pass
// re-reads the directory under the old extension rules. Tabs whose path
// changed have their watcher torn down; nothing rebuilds it, so SaveTab
// fails for such a tab until LoadTab is called for it again. Tabs whose
// path was unset are torn down with their files left on disk and their
// file-only rows pruned from the model.
func (l *Loader) ApplySettingsChange(reg *format.Registry) {
	l.mu.Lock()
	l.registry = reg
	watchers := make(map[string]*watcher.FileWatcher, len(l.watchers))
	for k, v := range l.watchers {
		watchers[k] = v
	}
	l.mu.Unlock()

	for tabName, w := range watchers {
		path := l.Path(tabName)
		switch {
		case path == "":
			// Unset: tear down, leave files on disk, prune rows that
			// carried no user data (§4.H / §8 scenario 6).
			model := w.Model()
			w.Stop()
			pruneFileOnlyRows(model)
			l.mu.Lock()
			delete(l.watchers, tabName)
			l.mu.Unlock()
		case path != w.Path():
			// Changed: tear down; rebuilt only by a later LoadTab.
			w.Stop()
			l.mu.Lock()
			delete(l.watchers, tabName)
			l.mu.Unlock()
		case w.Valid():
			w.Rescan()
		}
	}
}

// CopiedInto implements the "on item copied" responsibility (cross-tab
// duplication): it clones source so the destination tab's row is never
// aliased to the row still sitting in the source tab, stamps Meta.SyncPath
// on the clone, and synthesizes text/plain and text/uri-list payloads from
// the source's ExtMap entries, recording their hashes in Meta.NoSave so the
// materializer never persists them as file contents of their own.
func (l *Loader) CopiedInto(srcDir string, source *item.Item) *item.Item {
	copy := source.Clone()
	copy.Meta.SyncPath = srcDir

	var names, uris []string
	for _, ext := range copy.Meta.ExtMap {
		if ext == "" {
			continue
		}
		p := filepath.Join(srcDir, copy.Meta.BaseName+ext)
		names = append(names, p)
		uris = append(uris, "file://"+p)
	}
	if len(names) == 0 {
		return copy
	}
	if copy.Meta.NoSave == nil {
		copy.Meta.NoSave = make(map[string]item.Hash)
	}

	if _, exists := copy.Payload["text/plain"]; !exists {
		data := []byte(strings.Join(names, "\n"))
		copy.Payload["text/plain"] = data
		copy.Meta.NoSave["text/plain"] = item.Sum(data)
	}
	if _, exists := copy.Payload["text/uri-list"]; !exists {
		data := []byte(strings.Join(uris, "\n"))
		copy.Payload["text/uri-list"] = data
		copy.Meta.NoSave["text/uri-list"] = item.Sum(data)
	}
	return copy
}

// RemoveRequested implements the "on item remove requested by user"
// responsibility: if it's basename no longer appears anywhere else in the
// model (i.e. the row was actually deleted, not merely moved), every file
// listed in its ExtMap is removed from disk.
func (l *Loader) RemoveRequested(dir string, it *item.Item, model collection.Model) error {
	for i := 0; i < model.Len(); i++ {
		other := model.Data(i)
		if other != nil && other != it && other.Meta.BaseName == it.Meta.BaseName {
			return nil
		}
	}
	for _, ext := range it.Meta.ExtMap {
		if ext == "" {
			continue
		}
		path := filepath.Join(dir, it.Meta.BaseName+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", errs.ErrFileWriteFailed, err)
		}
		if l.hashes != nil {
			_ = l.hashes.Forget(context.Background(), path)
		}
	}
	return nil
}

// UnloadTab tears down tabName's watcher, if any, and prunes rows that
// carried no user data (§4.H / §8 scenario 6): a row that was only ever
// internal bookkeeping for a file on disk has nothing left to keep once
// the tab is no longer synced, while a row holding user data (clipboard
// content, notes) is kept regardless of what happens to its files.
func (l *Loader) UnloadTab(tabName string) {
	l.mu.Lock()
	w, ok := l.watchers[tabName]
	delete(l.watchers, tabName)
	l.mu.Unlock()
	if !ok {
		return
	}
	model := w.Model()
	w.Stop()
	pruneFileOnlyRows(model)
}

// pruneFileOnlyRows removes every row in model that has on-disk files but
// no user-visible payload, walking back to front so removing a row never
// shifts the index of one still to be examined.
func pruneFileOnlyRows(model collection.Model) {
	if model == nil {
		return
	}
	for i := model.Len() - 1; i >= 0; i-- {
		it := model.Data(i)
		if it != nil && it.HasFiles() && !it.HasUserData() {
			model.RemoveRow(i)
		}
	}
}

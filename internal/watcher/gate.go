package watcher

import (
	"sync"
	"sync/atomic"
)

// gate is the scoped mute/unmute acquisition around a watcher pass
// (SPEC_FULL.md §4.G, §9). It replaces the disconnect/reconnect pair the
// original uses to stop its own writes from re-triggering itself: while
// the gate is held, model-change notifications are not observed, and the
// bound model's disabled property is set.
//
// Usage is always a scoped Enter/deferred Exit around exactly one
// direction-R or direction-W pass:
//
//	release := g.Enter()
//	defer release()
//
// A pass run under Enter mutates the model synchronously, and the model
// delivers its change notifications synchronously too (same goroutine, no
// channel hop) — so a listener method invoked mid-pass calls back into
// Muted() while Enter is still held on that same goroutine. muted is
// therefore an atomic.Bool rather than state behind the same mutex Enter
// holds: Muted() must never block on a lock its own caller might already
// own, or that call deadlocks itself. enterMu still serializes concurrent
// passes; it is never touched by Muted.
type gate struct {
	enterMu sync.Mutex
	muted   atomic.Bool
	notify  func(bool)
}

func newGate(notify func(bool)) *gate {
	return &gate{notify: notify}
}

// Enter acquires the gate, marking it muted, and returns a release
// function that must be called exactly once to exit.
func (g *gate) Enter() func() {
	g.enterMu.Lock()
	g.muted.Store(true)
	if g.notify != nil {
		g.notify(true)
	}
	return func() {
		g.muted.Store(false)
		if g.notify != nil {
			g.notify(false)
		}
		g.enterMu.Unlock()
	}
}

// Muted reports whether a pass currently holds the gate. Event handlers
// consult this before acting on a model or filesystem notification,
// including handlers invoked synchronously from inside the very pass
// holding the gate, so this must never lock enterMu.
func (g *gate) Muted() bool {
	return g.muted.Load()
}

// Package dedup implements windowed key-set deduplication.
//
// A Window remembers keys for a fixed TTL. Expiry is lazy: a key whose TTL
// has elapsed is treated as absent at lookup time, and the whole set is
// swept opportunistically so entries for keys that never recur don't
// accumulate. No timers are scheduled per key.
package dedup

import (
	"sync"
	"time"
)

// Window is a set of keys that each expire a fixed TTL after insertion.
type Window struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]time.Time // key → expiry instant
	lastSweep time.Time

	now func() time.Time // test hook
}

// NewWindow creates a Window with the given TTL.
func NewWindow(ttl time.Duration) *Window {
	return &Window{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Seen reports whether key was already recorded within the TTL window and
// records it if not. A key is accepted (Seen returns false) at most once
// per TTL window.
func (w *Window) Seen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.maybeSweep(now)

	if expiry, ok := w.entries[key]; ok && now.Before(expiry) {
		return true
	}

	w.entries[key] = now.Add(w.ttl)
	return false
}

// Len returns the number of live (unexpired) keys.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	n := 0
	for _, expiry := range w.entries {
		if now.Before(expiry) {
			n++
		}
	}
	return n
}

// maybeSweep drops expired entries at most once per TTL interval.
// Caller must hold w.mu.
func (w *Window) maybeSweep(now time.Time) {
	if now.Sub(w.lastSweep) < w.ttl {
		return
	}
	w.lastSweep = now

	for key, expiry := range w.entries {
		if !now.Before(expiry) {
			delete(w.entries, key)
		}
	}
}

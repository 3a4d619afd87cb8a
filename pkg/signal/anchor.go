package signal

import "sync"

// Anchor bounds the lifetime of a set of registrations. Tokens tied to
// an anchor with Token.CancelOn or ObserveUntil are cancelled when the
// anchor is released, giving deterministic teardown where relying on
// the garbage collector to prune weak registrations is not acceptable.
//
// An anchor is released at most once. All methods are safe for
// concurrent use.
type Anchor struct {
	mu       sync.Mutex
	released bool
	cleanups []func()
}

// NewAnchor creates an unreleased anchor.
func NewAnchor() *Anchor {
	return &Anchor{}
}

// OnRelease registers a cleanup function to run when the anchor is
// released. Returns an unregister function that removes the cleanup.
// If the anchor has already been released, cleanup runs immediately.
func (a *Anchor) OnRelease(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		cleanup()
		return func() {}
	}
	index := len(a.cleanups)
	a.cleanups = append(a.cleanups, cleanup)
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if index < len(a.cleanups) {
			a.cleanups[index] = nil
		}
	}
}

// Release runs the registered cleanups in reverse order and marks the
// anchor released. Subsequent calls are no-ops.
//
// Cleanups run without the anchor's lock held, so a cleanup may itself
// call OnRelease (the new cleanup runs immediately) or cancel tokens on
// arbitrary signals.
func (a *Anchor) Release() {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	a.released = true
	cleanups := a.cleanups
	a.cleanups = nil
	a.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		if cleanups[i] != nil {
			cleanups[i]()
		}
	}
}

// Released reports whether Release has been called.
func (a *Anchor) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

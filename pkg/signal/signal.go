package signal

import (
	"sync"
	"weak"
)

// Signal is the capability of broadcasting values to registered observers.
// Publisher and Relay are the two implementations; the unexported
// registration hook keeps the set closed so the delivery protocol
// (snapshot broadcast, lazy pruning) stays uniform.
type Signal[T any] interface {
	// Observe registers fn to run with each future value and returns a
	// Token that undoes the registration.
	Observe(fn func(T)) *Token

	// attach registers a delivery function. deliver reports whether the
	// observing party is still reachable; a false return marks the
	// registration stale, and stale registrations are pruned without
	// being invoked again.
	attach(deliver func(T) bool) *Token
}

var (
	_ Signal[int] = (*Publisher[int])(nil)
	_ Signal[int] = (*Relay[int])(nil)
)

// tableEntry pairs a registration id with its delivery function for
// snapshot iteration during a broadcast.
type tableEntry[T any] struct {
	id      uint64
	deliver func(T) bool
}

// table is the registration store shared by Publisher and Relay.
// The zero value is ready to use.
type table[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]func(T) bool
}

func (t *table[T]) insert(deliver func(T) bool) *Token {
	t.mu.Lock()
	if t.entries == nil {
		t.entries = make(map[uint64]func(T) bool)
	}
	id := t.nextID
	t.nextID++
	t.entries[id] = deliver
	t.mu.Unlock()
	return newToken(func() { t.remove(id) })
}

func (t *table[T]) remove(id uint64) {
	t.mu.Lock()
	delete(t.entries, id)
	t.mu.Unlock()
}

func (t *table[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// broadcast delivers v to a snapshot of the registrations live when the
// call began. The lock is not held during callbacks, so a callback may
// observe, cancel, or emit reentrantly without corrupting the table.
// Registrations added mid-broadcast do not receive v; registrations
// whose delivery reports the observer gone are pruned and never invoked
// again.
func (t *table[T]) broadcast(v T) {
	t.mu.Lock()
	if len(t.entries) == 0 {
		t.mu.Unlock()
		return
	}
	snapshot := make([]tableEntry[T], 0, len(t.entries))
	for id, deliver := range t.entries {
		snapshot = append(snapshot, tableEntry[T]{id: id, deliver: deliver})
	}
	t.mu.Unlock()

	var stale []uint64
	for _, e := range snapshot {
		if !e.deliver(v) {
			stale = append(stale, e.id)
		}
	}
	if len(stale) == 0 {
		return
	}
	t.mu.Lock()
	for _, id := range stale {
		delete(t.entries, id)
	}
	t.mu.Unlock()
}

// ObserveOwned registers fn to run with (owner, value) on each future
// value. The owner is weakly held: the registration never keeps it
// alive, and once the owner has been collected the registration is
// pruned on the next emit without invoking fn. fn receives the owner
// back on each delivery so it need not capture it.
//
// Observing a Relay replays the current value to (owner, fn)
// synchronously before ObserveOwned returns.
func ObserveOwned[O any, T any](s Signal[T], owner *O, fn func(*O, T)) *Token {
	wp := weak.Make(owner)
	return s.attach(func(v T) bool {
		o := wp.Value()
		if o == nil {
			return false
		}
		fn(o, v)
		return true
	})
}

// ObserveUntil registers fn on s and bounds the registration's lifetime
// by a: releasing the anchor cancels it. The returned token may still be
// cancelled earlier by hand.
func ObserveUntil[T any](a *Anchor, s Signal[T], fn func(T)) *Token {
	return s.Observe(fn).CancelOn(a)
}

package signal

import "sync"

// Relay is a Signal that retains the most recently emitted value and
// replays it synchronously to each new observer at registration time.
// A relay always holds a value; construct it with NewRelay.
//
// All methods are safe for concurrent use; callbacks run synchronously
// on the emitting goroutine.
type Relay[T any] struct {
	mu    sync.Mutex
	value T
	tab   table[T]
}

// NewRelay creates a relay holding initial.
func NewRelay[T any](initial T) *Relay[T] {
	return &Relay[T]{value: initial}
}

// Value returns the value most recently stored by Emit (or the initial
// value if nothing has been emitted).
func (r *Relay[T]) Value() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Emit stores v as the current value, then delivers it exactly once to
// every live registration present when the call began, in unspecified
// order.
func (r *Relay[T]) Emit(v T) {
	r.mu.Lock()
	r.value = v
	r.mu.Unlock()
	r.tab.broadcast(v)
}

// Observe synchronously invokes fn with the current value, then
// registers it for future emits and returns the registration's Token.
//
// The replay happens before the registration is inserted, so an emit
// triggered reentrantly from inside the replay callback is broadcast to
// the previously registered observers only; the new registration first
// sees the emit after Observe returns.
func (r *Relay[T]) Observe(fn func(T)) *Token {
	return r.attach(func(v T) bool {
		fn(v)
		return true
	})
}

func (r *Relay[T]) attach(deliver func(T) bool) *Token {
	if !deliver(r.Value()) {
		// Observer already unreachable at registration time.
		return newToken(nil)
	}
	return r.tab.insert(deliver)
}

// Len reports the number of registrations currently in the table,
// including stale ones not yet pruned.
func (r *Relay[T]) Len() int {
	return r.tab.len()
}

// EmitIfChanged emits v only when it differs from the current value,
// and reports whether it did. Equal values neither update the stored
// value nor reach any observer, which avoids redundant broadcast storms
// for equality-comparable value types.
func EmitIfChanged[T comparable](r *Relay[T], v T) bool {
	r.mu.Lock()
	if r.value == v {
		r.mu.Unlock()
		return false
	}
	r.value = v
	r.mu.Unlock()
	r.tab.broadcast(v)
	return true
}

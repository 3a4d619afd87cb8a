package signaltest

import (
	"sync"
	"time"
)

// Recorder captures the values delivered to a callback. All methods are
// safe for concurrent use.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewRecorder creates an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Callback returns a delivery function that records each value.
// Suitable for Signal.Observe.
func (r *Recorder[T]) Callback() func(T) {
	return func(v T) {
		r.mu.Lock()
		r.values = append(r.values, v)
		r.mu.Unlock()
	}
}

// OwnedCallback returns a delivery function in the (owner, value) shape
// used by signal.ObserveOwned, recording each value to r. It is a free
// function rather than a method so the owner type stays generic.
func OwnedCallback[O, T any](r *Recorder[T]) func(*O, T) {
	return func(_ *O, v T) {
		r.Record(v)
	}
}

// Record appends v directly.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recently recorded value, if any.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Reset discards everything recorded so far.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	r.values = nil
	r.mu.Unlock()
}

// AwaitLen polls until at least n values have been recorded or timeout
// elapses, and reports whether the count was reached. Use it for
// deliveries that arrive asynchronously, such as redirected Driver
// writes.
func (r *Recorder[T]) AwaitLen(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if r.Len() >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

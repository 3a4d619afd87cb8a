package driver

import (
	"fmt"

	"github.com/go-tether/tether/pkg/errors"
	"github.com/go-tether/tether/pkg/signal"
)

// ContractChecks enables the owning-context assertions on Driver reads
// and change-gated writes. On by default; a violation is reported
// through pkg/errors and then panics. Disabling the checks does not
// make off-loop access safe, it only stops diagnosing it.
var ContractChecks = true

// Driver wraps a relay and confines its mutation to one Loop,
// replacing ad-hoc locking with a single-writer discipline:
//
//   - Get must be called on the owning loop.
//   - Set from the owning loop applies synchronously; from any other
//     goroutine the write is redirected into the loop's queue and Set
//     returns immediately. Redirected writes preserve submission order.
//   - SetIfChanged applies and broadcasts only when the new value
//     differs from the current one.
//
// Observation is unrestricted: consumers subscribe through Relay().
type Driver[T any] struct {
	loop  *Loop
	relay *signal.Relay[T]
	eq    func(a, b T) bool
}

// New creates a driver owning a relay that starts at initial, using ==
// for SetIfChanged comparisons.
func New[T comparable](loop *Loop, initial T) *Driver[T] {
	return NewWithEquality(loop, initial, func(a, b T) bool { return a == b })
}

// NewWithEquality is New for value types that are not comparable, or
// that need a narrower notion of change (compare a version field
// instead of the whole struct, for example).
func NewWithEquality[T any](loop *Loop, initial T, eq func(a, b T) bool) *Driver[T] {
	if eq == nil {
		reportContract("driver.NewWithEquality", "nil equality function")
	}
	return &Driver[T]{
		loop:  loop,
		relay: signal.NewRelay(initial),
		eq:    eq,
	}
}

// Get returns the current value. It must be called on the owning loop.
func (d *Driver[T]) Get() T {
	d.mustOwn("driver.Get")
	return d.relay.Value()
}

// Set stores v and broadcasts it to the relay's observers. On the
// owning loop the write applies before Set returns; from any other
// goroutine it is redirected to the loop and applied asynchronously.
func (d *Driver[T]) Set(v T) {
	if d.loop.Owns() {
		d.relay.Emit(v)
		return
	}
	d.loop.Dispatch(func() {
		d.relay.Emit(v)
	})
}

// SetIfChanged stores and broadcasts v only when it differs from the
// current value, and reports whether it did. It must be called on the
// owning loop: the result is only meaningful when the read-compare-write
// cannot interleave with other writers, which is exactly what the loop
// guarantees.
func (d *Driver[T]) SetIfChanged(v T) bool {
	d.mustOwn("driver.SetIfChanged")
	if d.eq(d.relay.Value(), v) {
		return false
	}
	d.relay.Emit(v)
	return true
}

// Relay exposes the underlying relay for observation and binding.
// Producers should write through the Driver so the single-writer
// discipline holds.
func (d *Driver[T]) Relay() *signal.Relay[T] {
	return d.relay
}

// Loop returns the owning loop.
func (d *Driver[T]) Loop() *Loop {
	return d.loop
}

func (d *Driver[T]) mustOwn(op string) {
	if !ContractChecks || d.loop.Owns() {
		return
	}
	reportContract(op, "not on owning loop")
}

// reportContract reports a contract violation and panics with it.
func reportContract(op, msg string) {
	err := &errors.TetherError{
		Op:         op,
		Kind:       errors.KindContract,
		Err:        fmt.Errorf("%s", msg),
		StackTrace: errors.CaptureStack(),
	}
	errors.Report(err)
	panic(err)
}

// Package signal provides observable-value primitives with explicit,
// memory-safe subscription lifetime.
//
// This package defines the foundational types for reactive bindings:
// Signal, Publisher, Relay, Token, and Anchor. A producer broadcasts
// values, consumers register callbacks, and every registration is
// removed exactly once — either explicitly through its Token, or lazily
// once the observing party is no longer reachable.
//
// # Core Types
//
// Publisher is a value-less Signal. It forwards each emitted value to
// the registrations live at the time the emit began and retains nothing.
//
// Relay additionally retains the most recently emitted value and replays
// it synchronously to each new observer at registration time.
//
// Token undoes exactly one registration. Cancelling twice is always safe.
//
// # Observer Lifetime
//
// Registrations created with [ObserveOwned] hold their owner through a
// weak pointer: subscribing never keeps the owner alive, and once the
// owner is collected the registration is pruned on the next emit without
// invoking its callback. For deterministic teardown, tie registrations
// to an [Anchor] and release it when the observing party shuts down:
//
//	anchor := signal.NewAnchor()
//	signal.ObserveUntil(anchor, relay, func(v int) { ... })
//	// later, during teardown:
//	anchor.Release()
//
// # Bindings
//
// Bind copies a field of the relay's value into a field of a target
// object on every emit, using explicit getter/setter pairs:
//
//	signal.Bind(store.Relay(),
//	    func(s State) string { return s.Title },
//	    view,
//	    func(v *View, title string) { v.Label = title })
//
// # Concurrency
//
// Observe, Emit, and Token.Cancel may be called from any goroutine; the
// registration table is mutex-guarded. Broadcasts iterate a snapshot of
// the table taken when the emit began, so callbacks may reenter the
// signal (observe, cancel, or emit again) freely. Callbacks run on the
// emitting goroutine; to confine all mutation to one goroutine, wrap a
// Relay in a driver.Driver.
package signal

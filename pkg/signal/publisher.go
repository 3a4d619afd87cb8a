package signal

// Publisher is a value-less Signal: each emitted value is forwarded to
// the registrations live at the time the emit began, and nothing is
// retained afterwards.
//
// The zero value is ready to use. All methods are safe for concurrent
// use; callbacks run synchronously on the emitting goroutine.
type Publisher[T any] struct {
	tab table[T]
}

// NewPublisher creates an empty publisher.
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{}
}

// Observe registers fn to run with each future value and returns a
// Token that undoes the registration. The same callback may be
// registered more than once; each registration is independent and each
// fires.
func (p *Publisher[T]) Observe(fn func(T)) *Token {
	return p.attach(func(v T) bool {
		fn(v)
		return true
	})
}

func (p *Publisher[T]) attach(deliver func(T) bool) *Token {
	return p.tab.insert(deliver)
}

// Emit delivers v exactly once to every live registration present when
// the call began, in unspecified order. Emitting with no registrations
// is a no-op. Registrations whose observer has been collected are
// pruned instead of invoked.
func (p *Publisher[T]) Emit(v T) {
	p.tab.broadcast(v)
}

// Len reports the number of registrations currently in the table,
// including stale ones not yet pruned.
func (p *Publisher[T]) Len() int {
	return p.tab.len()
}

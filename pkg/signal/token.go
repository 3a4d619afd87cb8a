package signal

import "sync/atomic"

// Token is an opaque handle for one active registration.
// Cancelling it removes that registration; cancelling again is a no-op.
type Token struct {
	done   atomic.Bool
	cancel func()
}

func newToken(cancel func()) *Token {
	return &Token{cancel: cancel}
}

// Cancel removes the registration this token was issued for.
// It is idempotent and safe to call from any goroutine, on a nil token,
// and after the registration has already been pruned.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	if t.done.CompareAndSwap(false, true) && t.cancel != nil {
		t.cancel()
	}
}

// CancelOn arranges for the token to be cancelled when a is released.
// Returns the token for chaining. If a has already been released, the
// token is cancelled immediately.
func (t *Token) CancelOn(a *Anchor) *Token {
	if t == nil || a == nil {
		return t
	}
	a.OnRelease(t.Cancel)
	return t
}

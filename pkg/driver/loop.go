// Package driver confines all mutation of a relay to one goroutine.
//
// A [Loop] is a single-goroutine execution context with a FIFO callback
// queue. A [Driver] pairs a relay with a loop and enforces a
// single-writer discipline: reads must happen on the loop, writes from
// the loop apply synchronously, and writes from any other goroutine are
// redirected into the loop's queue in submission order.
//
// Typical setup:
//
//	loop := driver.NewLoop()
//	loop.Start()
//	defer loop.Stop()
//
//	count := driver.New(loop, 0)
//	go func() {
//	    count.Set(42) // redirected onto the loop, fire-and-forget
//	}()
package driver

import (
	"sync"
	"sync/atomic"

	"github.com/go-tether/tether/internal/goroutine"
	"github.com/go-tether/tether/pkg/errors"
)

const (
	loopIdle = iota
	loopRunning
	loopStopping
	loopStopped
)

// Loop is a single-goroutine execution context. Callbacks submitted with
// Dispatch run on the loop goroutine in submission order.
type Loop struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []func()
	state int
	done  chan struct{}
	gid   atomic.Uint64
}

// NewLoop creates a loop. It does not run until Start is called.
func NewLoop() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Start launches the loop goroutine. Calling Start on a running or
// stopped loop is a no-op; loops are not restartable.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != loopIdle {
		return
	}
	l.state = loopRunning
	l.done = make(chan struct{})
	go l.run()
}

func (l *Loop) run() {
	l.gid.Store(goroutine.ID())
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && l.state == loopRunning {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.state == loopStopping {
			l.state = loopStopped
			l.mu.Unlock()
			close(l.done)
			return
		}
		callbacks := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, cb := range callbacks {
			l.invoke(cb)
		}
	}
}

// invoke runs one callback, recovering and reporting any panic so a
// misbehaving callback cannot kill the loop.
func (l *Loop) invoke(cb func()) {
	defer errors.Recover("driver.Loop")
	cb()
}

// Dispatch schedules fn to run on the loop goroutine and returns
// without waiting for it. Callbacks run in submission order. Reports
// whether fn was accepted; it is rejected when nil or when the loop is
// not running.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.state != loopRunning {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.cond.Signal()
	return true
}

// Owns reports whether the caller is running on the loop goroutine.
func (l *Loop) Owns() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goroutine.ID()
}

// Stop drains the callbacks already accepted, then shuts the loop
// goroutine down and waits for it to exit. Dispatch returns false
// afterwards. Stop is idempotent.
//
// Stop must not be called from the loop goroutine itself; doing so is a
// contract violation and panics.
func (l *Loop) Stop() {
	if l.Owns() {
		reportContract("driver.Loop.Stop", "called from the loop it would stop")
	}

	l.mu.Lock()
	switch l.state {
	case loopIdle:
		l.state = loopStopped
		l.mu.Unlock()
		return
	case loopStopping, loopStopped:
		done := l.done
		l.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	l.state = loopStopping
	done := l.done
	l.mu.Unlock()

	l.cond.Broadcast()
	<-done
}

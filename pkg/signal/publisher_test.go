package signal

import (
	"runtime"
	"slices"
	"sync"
	"testing"
)

func TestPublisherDeliversToEachObserverExactlyOnce(t *testing.T) {
	pub := NewPublisher[string]()

	counts := make([]int, 4)
	for i := range counts {
		i := i
		pub.Observe(func(v string) {
			if v != "hello" {
				t.Errorf("observer %d received %q, want %q", i, v, "hello")
			}
			counts[i]++
		})
	}

	pub.Emit("hello")

	for i, n := range counts {
		if n != 1 {
			t.Errorf("observer %d invoked %d times, want 1", i, n)
		}
	}
}

func TestPublisherEmitWithNoObservers(t *testing.T) {
	pub := NewPublisher[int]()
	pub.Emit(42) // must be a no-op, not a panic
	if pub.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pub.Len())
	}
}

func TestPublisherDuplicateRegistrationsBothFire(t *testing.T) {
	pub := NewPublisher[int]()

	calls := 0
	fn := func(int) { calls++ }
	pub.Observe(fn)
	pub.Observe(fn)

	pub.Emit(1)

	if calls != 2 {
		t.Errorf("callback invoked %d times, want 2 (registrations are not deduplicated)", calls)
	}
}

func TestTokenCancelIsIdempotent(t *testing.T) {
	pub := NewPublisher[int]()

	var a, b []int
	tokA := pub.Observe(func(v int) { a = append(a, v) })
	pub.Observe(func(v int) { b = append(b, v) })

	tokA.Cancel()
	tokA.Cancel()
	tokA.Cancel()

	pub.Emit(7)

	if len(a) != 0 {
		t.Errorf("cancelled observer received %v, want nothing", a)
	}
	if !slices.Equal(b, []int{7}) {
		t.Errorf("remaining observer received %v, want [7]", b)
	}
	if pub.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pub.Len())
	}
}

func TestTokenCancelNilSafe(t *testing.T) {
	var tok *Token
	tok.Cancel() // no-op
}

func TestPostCancelIsolation(t *testing.T) {
	pub := NewPublisher[int]()

	var a, b []int
	tokA := pub.Observe(func(v int) { a = append(a, v) })
	pub.Observe(func(v int) { b = append(b, v) })

	pub.Emit(1)
	tokA.Cancel()
	pub.Emit(2)

	if !slices.Equal(a, []int{1}) {
		t.Errorf("observer A received %v, want [1]", a)
	}
	if !slices.Equal(b, []int{1, 2}) {
		t.Errorf("observer B received %v, want [1 2]", b)
	}
}

func TestEmitSnapshotExcludesRegistrationsAddedDuringBroadcast(t *testing.T) {
	pub := NewPublisher[int]()

	var late []int
	registered := false
	pub.Observe(func(int) {
		if !registered {
			registered = true
			pub.Observe(func(v int) { late = append(late, v) })
		}
	})

	pub.Emit(1)
	if len(late) != 0 {
		t.Errorf("observer added mid-broadcast received %v, want nothing from that broadcast", late)
	}

	pub.Emit(2)
	if !slices.Equal(late, []int{2}) {
		t.Errorf("late observer received %v, want [2]", late)
	}
}

func TestObserverCanCancelOwnTokenDuringBroadcast(t *testing.T) {
	pub := NewPublisher[int]()

	calls := 0
	var tok *Token
	tok = pub.Observe(func(int) {
		calls++
		tok.Cancel()
	})

	pub.Emit(1)
	pub.Emit(2)

	if calls != 1 {
		t.Errorf("self-cancelling observer invoked %d times, want 1", calls)
	}
	if pub.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pub.Len())
	}
}

type watcher struct {
	name string
}

func TestObserveOwnedPrunesCollectedOwner(t *testing.T) {
	pub := NewPublisher[int]()

	calls := 0
	func() {
		owner := new(watcher)
		ObserveOwned(pub, owner, func(*watcher, int) { calls++ })
		pub.Emit(1)
		runtime.KeepAlive(owner)
	}()

	// The owner is unreachable now; the weak reference clears once the
	// collector has run.
	runtime.GC()
	runtime.GC()

	pub.Emit(2)

	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1 (stale registration must not fire)", calls)
	}
	if pub.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (stale registration must be pruned)", pub.Len())
	}
}

func TestObserveOwnedKeepsLiveOwner(t *testing.T) {
	pub := NewPublisher[int]()

	owner := &watcher{name: "live"}
	var got []int
	ObserveOwned(pub, owner, func(o *watcher, v int) {
		if o != owner {
			t.Error("callback received a different owner")
		}
		got = append(got, v)
	})

	pub.Emit(1)
	runtime.GC()
	pub.Emit(2)
	runtime.KeepAlive(owner)

	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("received %v, want [1 2]", got)
	}
}

func TestPublisherConcurrentUse(t *testing.T) {
	pub := NewPublisher[int]()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tok := pub.Observe(func(int) {})
				pub.Emit(i)
				tok.Cancel()
			}
		}()
	}
	wg.Wait()

	if pub.Len() != 0 {
		t.Errorf("Len() = %d after all tokens cancelled, want 0", pub.Len())
	}
}

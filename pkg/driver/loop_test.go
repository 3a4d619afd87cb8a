package driver

import (
	"testing"
	"time"

	"github.com/go-tether/tether/pkg/errors"
	"github.com/go-tether/tether/pkg/signaltest"
)

func TestLoopRunsCallbacksInSubmissionOrder(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	rec := signaltest.NewRecorder[int]()
	for i := 0; i < 50; i++ {
		i := i
		if !loop.Dispatch(func() { rec.Record(i) }) {
			t.Fatalf("Dispatch(%d) rejected on a running loop", i)
		}
	}

	if !rec.AwaitLen(50, time.Second) {
		t.Fatalf("only %d of 50 callbacks ran", rec.Len())
	}
	for i, v := range rec.Values() {
		if v != i {
			t.Fatalf("callback order %v, want ascending", rec.Values())
		}
	}
}

func TestLoopOwns(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	if loop.Owns() {
		t.Error("Owns() = true off the loop goroutine")
	}

	owns := make(chan bool, 1)
	loop.Dispatch(func() { owns <- loop.Owns() })
	if !<-owns {
		t.Error("Owns() = false inside a dispatched callback")
	}
}

func TestLoopStopDrainsAcceptedCallbacks(t *testing.T) {
	loop := NewLoop()
	loop.Start()

	rec := signaltest.NewRecorder[int]()
	for i := 0; i < 20; i++ {
		i := i
		loop.Dispatch(func() { rec.Record(i) })
	}

	loop.Stop()

	if rec.Len() != 20 {
		t.Errorf("%d callbacks ran before Stop returned, want 20", rec.Len())
	}
	if loop.Dispatch(func() {}) {
		t.Error("Dispatch accepted a callback after Stop")
	}
}

func TestLoopStopIdempotent(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	loop.Stop()
	loop.Stop()
}

func TestLoopStopBeforeStart(t *testing.T) {
	loop := NewLoop()
	loop.Stop()
	if loop.Dispatch(func() {}) {
		t.Error("Dispatch accepted a callback on a stopped loop")
	}
	loop.Start() // loops are not restartable
	if loop.Dispatch(func() {}) {
		t.Error("Dispatch accepted a callback after Stop-then-Start")
	}
}

func TestLoopDispatchNil(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()
	if loop.Dispatch(nil) {
		t.Error("Dispatch(nil) reported accepted")
	}
}

func TestLoopRecoversCallbackPanic(t *testing.T) {
	var panics []*errors.PanicError
	errors.SetHandler(&captureHandler{onPanic: func(e *errors.PanicError) {
		panics = append(panics, e)
	}})
	defer errors.SetHandler(nil)

	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	loop.Dispatch(func() { panic("callback blew up") })

	survived := make(chan struct{})
	loop.Dispatch(func() { close(survived) })

	select {
	case <-survived:
	case <-time.After(time.Second):
		t.Fatal("loop did not survive a panicking callback")
	}

	if len(panics) != 1 {
		t.Fatalf("%d panics reported, want 1", len(panics))
	}
	if panics[0].Op != "driver.Loop" {
		t.Errorf("Op = %q, want %q", panics[0].Op, "driver.Loop")
	}
	if panics[0].Value != "callback blew up" {
		t.Errorf("Value = %v, want %q", panics[0].Value, "callback blew up")
	}
}

type captureHandler struct {
	onError func(*errors.TetherError)
	onPanic func(*errors.PanicError)
}

func (h *captureHandler) HandleError(err *errors.TetherError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

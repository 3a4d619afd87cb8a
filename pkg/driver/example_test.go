package driver_test

import (
	"fmt"

	"github.com/go-tether/tether/pkg/driver"
)

// This example confines all reads and change-gated writes of a value to
// one loop. Redundant writes are gated out before any broadcast.
func ExampleDriver() {
	loop := driver.NewLoop()
	loop.Start()
	defer loop.Stop()

	temperature := driver.New(loop, 20)

	done := make(chan struct{})
	loop.Dispatch(func() {
		fmt.Println("changed:", temperature.SetIfChanged(20))
		fmt.Println("changed:", temperature.SetIfChanged(21))
		fmt.Println("value:", temperature.Get())
		close(done)
	})
	<-done

	// Output:
	// changed: false
	// changed: true
	// value: 21
}

// This example shows a background goroutine handing a write to the
// owning loop. The caller does not wait for the write to apply.
func ExampleDriver_redirectedWrite() {
	loop := driver.NewLoop()
	loop.Start()

	status := driver.New(loop, "starting")

	finished := make(chan struct{})
	go func() {
		status.Set("ready") // redirected onto the loop
		close(finished)
	}()
	<-finished

	loop.Stop() // drains the redirected write
	fmt.Println(status.Relay().Value())

	// Output:
	// ready
}

// Package errors provides structured error reporting for the tether library.
//
// The library itself has no recoverable error paths: operations either
// succeed or are no-ops. What remains are programming-contract
// violations (accessing a Driver off its owning loop), panics recovered
// from dispatched callbacks, and scenario-script decode failures. These
// are surfaced through a process-wide ErrorHandler so embedding
// applications can route them to their own logging.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a violated usage contract, such as reading
	// a Driver value off its owning loop.
	KindContract
	// KindParsing indicates a scenario-script decode failure.
	KindParsing
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindParsing:
		return "parsing"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// TetherError represents a structured error in the tether library.
type TetherError struct {
	// Op is the operation that failed (e.g., "driver.Get").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *TetherError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *TetherError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "driver.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the tether library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *TetherError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

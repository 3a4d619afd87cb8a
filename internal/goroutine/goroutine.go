// Package goroutine exposes the numeric id of the calling goroutine.
//
// The runtime does not provide goroutine ids directly; the header line
// of a single-goroutine stack dump ("goroutine 18 [running]:") is the
// stable place to read one. The id is used only for owning-context
// assertions in pkg/driver, never for identity-based dispatch.
package goroutine

import (
	"bytes"
	"runtime"
	"strconv"
)

// ID returns the id of the calling goroutine, or 0 if it cannot be
// determined.
func ID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		header = header[:i]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

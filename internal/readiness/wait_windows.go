//go:build windows

package readiness

import (
	"errors"
	"time"

	"golang.org/x/sys/windows"
)

// Anonymous pipes cannot be waited on with WaitForMultipleObjects, so readiness is
// sampled with PeekNamedPipe at a short interval.
var peekInterval = 10 * time.Millisecond

func wait(handles []uintptr, timeout time.Duration) (Ready, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		ready := make(Ready, len(handles))
		for i, h := range handles {
			ok, err := peek(windows.Handle(h))
			if err != nil {
				return nil, err
			}
			ready[i] = ok
		}
		if ready.Any() || timeout == 0 {
			return ready, nil
		}
		if timeout > 0 && !time.Now().Before(deadline) {
			return ready, nil
		}
		time.Sleep(peekInterval)
	}
}

// peek reports whether a read on h would return without blocking.
func peek(h windows.Handle) (bool, error) {
	var avail uint32
	err := windows.PeekNamedPipe(h, nil, 0, nil, &avail, nil)
	if err == nil {
		return avail > 0, nil
	}
	// A closed writer surfaces as EOF on the next read.
	if errors.Is(err, windows.ERROR_BROKEN_PIPE) || errors.Is(err, windows.ERROR_HANDLE_EOF) {
		return true, nil
	}
	return false, err
}

// Package readiness reports which of several readable OS streams can be read without blocking.
//
// Wait is implemented once per platform: poll(2) through golang.org/x/sys/unix on unix
// systems and PeekNamedPipe through golang.org/x/sys/windows on Windows. Both the
// authentication race and the process tracer consume this single interface.
package readiness

import (
	"errors"
	"io"
	"syscall"
	"time"
)

// Forever makes Wait block until a stream becomes ready.
const Forever time.Duration = -1

// ErrNoStreams is returned when Wait is called without streams.
var ErrNoStreams = errors.New("readiness: no streams to wait on")

// Stream is a readable stream backed by an OS descriptor. *os.File satisfies it.
type Stream interface {
	io.Reader
	SyscallConn() (syscall.RawConn, error)
}

// Ready holds one flag per stream passed to Wait, in the same order.
// A stream is ready when a read will not block: data is buffered, or the writer hung up.
type Ready []bool

// Any reports whether at least one stream is ready.
func (r Ready) Any() bool {
	for _, ok := range r {
		if ok {
			return true
		}
	}
	return false
}

// Wait blocks until at least one of streams is ready or timeout elapses.
// A zero timeout polls once; Forever blocks without a deadline.
// When the timeout elapses first, Wait returns a Ready with every flag false and a nil error.
func Wait(streams []Stream, timeout time.Duration) (Ready, error) {
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}
	handles := make([]uintptr, len(streams))
	for i, s := range streams {
		h, err := handleOf(s)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}
	return wait(handles, timeout)
}

// handleOf returns the descriptor behind s without switching it to blocking mode,
// which calling (*os.File).Fd would do.
func handleOf(s Stream) (uintptr, error) {
	rc, err := s.SyscallConn()
	if err != nil {
		return 0, err
	}
	var h uintptr
	if err := rc.Control(func(fd uintptr) { h = fd }); err != nil {
		return 0, err
	}
	return h, nil
}

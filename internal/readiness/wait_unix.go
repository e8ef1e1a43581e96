//go:build unix

package readiness

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

const readyEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR | unix.POLLNVAL

func wait(handles []uintptr, timeout time.Duration) (Ready, error) {
	fds := make([]unix.PollFd, len(handles))
	for i, h := range handles {
		fds[i] = unix.PollFd{Fd: int32(h), Events: unix.POLLIN}
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		_, err := unix.Poll(fds, pollMillis(timeout, deadline))
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EINTR) {
			return nil, err
		}
		if timeout > 0 && !time.Now().Before(deadline) {
			return make(Ready, len(handles)), nil
		}
	}

	ready := make(Ready, len(handles))
	for i := range fds {
		ready[i] = fds[i].Revents&readyEvents != 0
	}
	return ready, nil
}

// pollMillis converts the remaining time to a poll(2) timeout, rounding sub-millisecond waits up.
func pollMillis(timeout time.Duration, deadline time.Time) int {
	switch {
	case timeout < 0:
		return -1
	case timeout == 0:
		return 0
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0
	}
	ms := int(remaining / time.Millisecond)
	if remaining%time.Millisecond != 0 {
		ms++
	}
	return ms
}

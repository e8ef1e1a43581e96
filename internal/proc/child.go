// Package proc owns child processes whose standard streams are read by the engine.
//
// exec.Cmd closes the pipes it creates as soon as Wait observes the exit, which would race
// with a reader that still has buffered output to consume. Child therefore creates the pipes
// itself and hands exec.Cmd the write ends, so the read ends stay valid until Close.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/readiness"
)

// ErrStdinClosed is returned when writing to a child whose stdin was already closed or never piped.
var ErrStdinClosed = errors.New("child stdin is closed")

// closeGrace bounds how long Close waits for a child to exit on its own before killing it.
var closeGrace = 3 * time.Second

// Status is the exit status of a finished child.
type Status struct {
	// Code is the exit code, or -1 when the child was terminated by a signal.
	Code int
	// Err is set when waiting failed for reasons other than a non-zero exit.
	Err error
}

// Success reports whether the child exited with status zero.
func (s Status) Success() bool {
	return s.Err == nil && s.Code == 0
}

// Child is a started process with piped stdout and stderr and an optional piped stdin.
type Child struct {
	cmd    *exec.Cmd
	stdout *os.File
	stderr *os.File

	mu    sync.Mutex
	stdin *os.File

	done   chan struct{}
	status Status

	closeOnce sync.Once
}

// Start launches cmd with its stdout and stderr connected to pipes owned by the returned
// Child. When pipeStdin is false the child reads from the null device.
// cmd.Stdin, cmd.Stdout and cmd.Stderr must be unset.
func Start(cmd *exec.Cmd, pipeStdin bool) (*Child, error) {
	if cmd.Stdin != nil || cmd.Stdout != nil || cmd.Stderr != nil {
		return nil, fmt.Errorf("proc: %s already has standard streams attached", cmd.Path)
	}

	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	newPipe := func() (*os.File, *os.File, error) {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, nil, err
		}
		opened = append(opened, r, w)
		return r, w, nil
	}

	outR, outW, err := newPipe()
	if err != nil {
		closeAll()
		return nil, failure.IO(err)
	}
	errR, errW, err := newPipe()
	if err != nil {
		closeAll()
		return nil, failure.IO(err)
	}
	var inR, inW *os.File
	if pipeStdin {
		if inR, inW, err = newPipe(); err != nil {
			closeAll()
			return nil, failure.IO(err)
		}
		cmd.Stdin = inR
	}
	cmd.Stdout = outW
	cmd.Stderr = errW
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		closeAll()
		return nil, failure.IO(err)
	}

	// The child holds its own copies of these ends now.
	_ = outW.Close()
	_ = errW.Close()
	if inR != nil {
		_ = inR.Close()
	}

	c := &Child{
		cmd:    cmd,
		stdout: outR,
		stderr: errR,
		stdin:  inW,
		done:   make(chan struct{}),
	}
	go c.wait()
	return c, nil
}

func (c *Child) wait() {
	err := c.cmd.Wait()
	status := Status{}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		status.Code = exitErr.ExitCode()
	default:
		status.Code = -1
		status.Err = err
	}
	c.status = status
	close(c.done)
}

// Name returns the program the child runs.
func (c *Child) Name() string {
	return c.cmd.Path
}

// Pid returns the process id of the child.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Stdout returns the read end of the child's standard output.
func (c *Child) Stdout() readiness.Stream {
	return c.stdout
}

// Stderr returns the read end of the child's standard error.
func (c *Child) Stderr() readiness.Stream {
	return c.stderr
}

// Write writes p to the child's stdin.
func (c *Child) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stdin == nil {
		return 0, ErrStdinClosed
	}
	n, err := c.stdin.Write(p)
	if err != nil {
		return n, failure.IO(err)
	}
	return n, nil
}

// CloseStdin closes the child's stdin so it observes EOF. It is safe to call more than once.
func (c *Child) CloseStdin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stdin == nil {
		return nil
	}
	err := c.stdin.Close()
	c.stdin = nil
	return err
}

// StdinOpen reports whether stdin can still be written.
func (c *Child) StdinOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stdin != nil
}

// Exited reports the exit status without blocking. ok is false while the child runs.
func (c *Child) Exited() (status Status, ok bool) {
	select {
	case <-c.done:
		return c.status, true
	default:
		return Status{}, false
	}
}

// Done is closed once the child has been reaped.
func (c *Child) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the child exits or ctx is done.
func (c *Child) Wait(ctx context.Context) (Status, error) {
	select {
	case <-c.done:
		return c.status, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Kill terminates the child and its process group.
func (c *Child) Kill() error {
	if _, ok := c.Exited(); ok {
		return nil
	}
	err := killProcessGroup(c.cmd)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Close releases the child: stdin is closed, the child gets a short grace period to exit,
// is killed if it is still running, and is always reaped before the read ends are closed.
func (c *Child) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.CloseStdin()
		select {
		case <-c.done:
		case <-time.After(closeGrace):
			err = c.Kill()
			select {
			case <-c.done:
			case <-time.After(closeGrace):
				if err == nil {
					err = fmt.Errorf("proc: %s (pid %d) did not exit after kill", c.Name(), c.Pid())
				}
			}
		}
		_ = closeFile(c.stdout)
		_ = closeFile(c.stderr)
	})
	return err
}

func closeFile(f *os.File) error {
	if f == nil {
		return nil
	}
	return f.Close()
}

var _ io.Writer = (*Child)(nil)

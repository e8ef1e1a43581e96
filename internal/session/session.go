// Package session owns one long-lived shell child, started directly or through an elevation tool.
package session

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/proc"
	"github.com/limit-lab/limit-up/internal/readiness"
)

// ErrStdinConsumed is returned when writing to a session whose final command was already sent.
var ErrStdinConsumed = errors.New(messages.SessionConsumed)

// Request describes how the shell should be started.
type Request struct {
	// Shell is the shell program. Defaults to sh (cmd.exe on Windows).
	Shell string
	// ElevationTool wraps Shell when the caller is not privileged, as `<tool> -c <shell>`.
	// Defaults to su; empty on platforms without one.
	ElevationTool string
	// RequireRoot refuses to start an elevation tool and fails unless the caller is already privileged.
	RequireRoot bool
}

// WithDefaults fills in the platform shell and elevation tool where r leaves them empty.
func (r Request) WithDefaults() Request {
	if r.Shell == "" {
		r.Shell = defaultShell
	}
	if r.ElevationTool == "" {
		r.ElevationTool = defaultElevationTool
	}
	return r
}

// Opener opens sessions. Engine code depends on it so tests can substitute the shell.
type Opener interface {
	Open(ctx context.Context, req Request) (*Session, error)
}

// SystemOpener opens sessions using sys to decide the elevation mode.
type SystemOpener struct {
	System System
}

// Open implements Opener.
func (o SystemOpener) Open(ctx context.Context, req Request) (*Session, error) {
	sys := o.System
	if sys == nil {
		sys = RealSystem{}
	}
	return Open(ctx, req, sys)
}

// Session is a running shell with piped standard streams.
// A session is owned by a single install attempt; its methods are not meant for concurrent writers.
type Session struct {
	child    *proc.Child
	elevated bool

	mu       sync.Mutex
	consumed bool

	closeOnce sync.Once
	closeErr  error
}

// Open starts a plain shell when sys reports a privileged caller, and the shell wrapped by
// the elevation tool otherwise. All three standard streams are piped.
func Open(ctx context.Context, req Request, sys System) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.WithDefaults()

	var cmd *exec.Cmd
	elevated := false
	switch {
	case sys.IsPrivileged():
		cmd = exec.Command(req.Shell)
	case req.RequireRoot:
		return nil, fmt.Errorf(messages.SessionRequiresRootFmt, failure.ErrPermissionDenied)
	case req.ElevationTool == "":
		return nil, fmt.Errorf(messages.SessionNoElevationFmt, failure.ErrPermissionDenied)
	default:
		cmd = exec.Command(req.ElevationTool, "-c", req.Shell)
		elevated = true
	}

	child, err := proc.Start(cmd, true)
	if err != nil {
		return nil, fmt.Errorf(messages.SessionStartFmt, cmd.Path, err)
	}
	return &Session{child: child, elevated: elevated}, nil
}

// Elevated reports whether the shell runs behind the elevation tool and still needs authentication.
func (s *Session) Elevated() bool {
	return s.elevated
}

// Process returns the shell child for tracing.
func (s *Session) Process() *proc.Child {
	return s.child
}

// Stdout returns the shell's standard output.
func (s *Session) Stdout() readiness.Stream {
	return s.child.Stdout()
}

// Stderr returns the shell's standard error.
func (s *Session) Stderr() readiness.Stream {
	return s.child.Stderr()
}

// WriteCommand writes text followed by a newline to the shell.
func (s *Session) WriteCommand(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(text)
}

// Consume writes the final command and closes stdin. Later writes fail with ErrStdinConsumed.
func (s *Session) Consume(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeLocked(text); err != nil {
		return err
	}
	s.consumed = true
	if err := s.child.CloseStdin(); err != nil {
		return failure.IO(err)
	}
	return nil
}

func (s *Session) writeLocked(text string) error {
	if s.consumed {
		return ErrStdinConsumed
	}
	if _, err := s.child.Write([]byte(text + "\n")); err != nil {
		return fmt.Errorf(messages.SessionWriteFmt, s.child.Name(), err)
	}
	return nil
}

// Close closes stdin if it is still open, waits briefly for the shell to exit, kills it
// otherwise, and reaps it. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.child.Close()
	})
	return s.closeErr
}

// Package failure defines the error taxonomy shared by the install engine.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrIO reports pipe or process level failures.
	ErrIO = errors.New("i/o error")
	// ErrPermissionDenied reports a denied or timed out elevation, or a missing required privilege.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotSupported reports that no recognized package manager was found on PATH.
	ErrNotSupported = errors.New("unsupported package manager or platform")
	// ErrCanceled reports that a traced child was killed before it finished.
	ErrCanceled = errors.New("operation canceled")
)

// IO wraps err so that errors.Is(err, ErrIO) holds while keeping the cause.
func IO(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// ProcessFailedError reports a child process that exited with a non-zero status.
// Manager is empty for children that are not package managers (git, installers).
type ProcessFailedError struct {
	ExitCode int
	Manager  string
	Command  string
}

func (e *ProcessFailedError) Error() string {
	switch {
	case e.Manager != "":
		return fmt.Sprintf("package manager %s exited with status %d", e.Manager, e.ExitCode)
	case e.Command != "":
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("process exited with status %d", e.ExitCode)
	}
}

// AsProcessFailed extracts a ProcessFailedError from err.
func AsProcessFailed(err error) (*ProcessFailedError, bool) {
	var pf *ProcessFailedError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

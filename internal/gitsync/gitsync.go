// Package gitsync clones or updates the server repository and traces git's output.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/proc"
	"github.com/limit-lab/limit-up/internal/tracer"
)

// Progress window for a sync. The lower half belongs to the dependency install
// that runs before it.
const (
	StartProgress = 50
	Ceiling       = 99
)

// Action is what Sync did to the checkout.
type Action string

const (
	Cloned Action = "clone"
	Pulled Action = "pull"
)

// Options configures Sync.
type Options struct {
	URL string
	Dir string
	// Git is the git binary. Empty uses "git" from PATH.
	Git          string
	PollInterval time.Duration
	Sink         tracer.Sink
	Logger       *zap.Logger
}

// Plan decides whether dir needs a clone or a pull.
func Plan(dir string) (Action, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return Cloned, nil
	}
	if err != nil {
		return "", fmt.Errorf(messages.GitSyncStatFmt, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(messages.GitSyncNotRepoFmt, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			entries, readErr := os.ReadDir(dir)
			if readErr == nil && len(entries) == 0 {
				return Cloned, nil
			}
			return "", fmt.Errorf(messages.GitSyncNotRepoFmt, dir)
		}
		return "", fmt.Errorf(messages.GitSyncStatFmt, dir, err)
	}
	return Pulled, nil
}

// Sync clones opts.URL into opts.Dir with submodules, or pulls when the checkout exists.
// git's output is traced with progress moving from StartProgress toward Ceiling.
func Sync(ctx context.Context, opts Options) (Action, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	action, err := Plan(opts.Dir)
	if err != nil {
		return "", err
	}

	git := opts.Git
	if git == "" {
		git = "git"
	}
	var args []string
	switch action {
	case Cloned:
		if err := os.MkdirAll(filepath.Dir(opts.Dir), 0o755); err != nil {
			return "", fmt.Errorf(messages.GitSyncMkdirFmt, filepath.Dir(opts.Dir), err)
		}
		args = []string{"clone", "--recursive", opts.URL, opts.Dir}
	case Pulled:
		args = []string{"-C", opts.Dir, "pull", "--recurse-submodules"}
	}
	log.Debug("git sync", zap.String("action", string(action)), zap.String("dir", opts.Dir))

	child, err := proc.Start(exec.Command(git, args...), false)
	if err != nil {
		return "", fmt.Errorf(messages.GitSyncStartFmt, err)
	}
	defer func() {
		_ = child.Close()
	}()

	err = tracer.Trace(ctx, child, tracer.Options{
		Start:        StartProgress,
		Ceiling:      Ceiling,
		PollInterval: opts.PollInterval,
		FailureMapper: func(status proc.Status) error {
			if status.Err != nil {
				return failure.IO(status.Err)
			}
			return &failure.ProcessFailedError{ExitCode: status.Code, Command: "git"}
		},
		Sink:   opts.Sink,
		Logger: log,
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

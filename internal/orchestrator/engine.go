// Package orchestrator composes the catalog, the shell session, authentication, and the
// tracer into the install and uninstall use cases.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/auth"
	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
	"github.com/limit-lab/limit-up/internal/proc"
	"github.com/limit-lab/limit-up/internal/session"
	"github.com/limit-lab/limit-up/internal/tracer"
)

// Settings tunes an Engine. Zero values use the package defaults.
type Settings struct {
	// Manager forces a catalog entry by name instead of probing PATH.
	Manager      string
	Session      session.Request
	AuthTimeout  time.Duration
	PollInterval time.Duration
	Ceiling      int
}

// Deps are the collaborators an Engine is built from.
type Deps struct {
	Catalog  pkgmanager.Catalog
	System   pkgmanager.System
	Opener   session.Opener
	Logger   *zap.Logger
	Settings Settings
}

// Engine runs package operations. It is built once at startup and holds no global state.
type Engine struct {
	catalog  pkgmanager.Catalog
	system   pkgmanager.System
	opener   session.Opener
	log      *zap.Logger
	settings Settings
}

type operation int

const (
	opInstall operation = iota
	opUninstall
)

func (o operation) String() string {
	if o == opUninstall {
		return "uninstall"
	}
	return "install"
}

// New validates deps and returns an Engine.
func New(deps Deps) (*Engine, error) {
	if len(deps.Catalog.Descriptors()) == 0 {
		return nil, errors.New(messages.EngineNoCatalog)
	}
	if deps.Opener == nil {
		return nil, errors.New(messages.EngineNoOpener)
	}
	if deps.System == nil {
		deps.System = pkgmanager.RealSystem{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Engine{
		catalog:  deps.Catalog,
		system:   deps.System,
		opener:   deps.Opener,
		log:      deps.Logger,
		settings: deps.Settings,
	}, nil
}

// Detect returns the package manager Install would use.
func (e *Engine) Detect() (pkgmanager.Descriptor, error) {
	if name := e.settings.Manager; name != "" {
		desc, ok := e.catalog.Lookup(name)
		if !ok {
			if hint := e.catalog.Suggest(name); hint != "" {
				return pkgmanager.Descriptor{}, fmt.Errorf(messages.EngineDidYouMeanFmt, name, hint, failure.ErrNotSupported)
			}
			return pkgmanager.Descriptor{}, fmt.Errorf(messages.EngineUnknownManagerFmt, name, failure.ErrNotSupported)
		}
		return desc, nil
	}
	return e.catalog.Select(e.system)
}

// Install installs deps through the detected package manager, reporting output and progress to sink.
// An empty deps list succeeds without starting anything.
func (e *Engine) Install(ctx context.Context, deps []string, secret string, sink tracer.Sink) error {
	return e.run(ctx, opInstall, deps, secret, sink)
}

// Uninstall removes pkgs the same way Install adds them.
func (e *Engine) Uninstall(ctx context.Context, pkgs []string, secret string, sink tracer.Sink) error {
	return e.run(ctx, opUninstall, pkgs, secret, sink)
}

func (e *Engine) run(ctx context.Context, op operation, pkgs []string, secret string, sink tracer.Sink) error {
	if len(pkgs) == 0 {
		return nil
	}
	for _, pkg := range pkgs {
		if !pkgmanager.ValidPackageName(pkg) {
			return fmt.Errorf(messages.EngineInvalidPackageFmt, pkg)
		}
	}
	desc, err := e.Detect()
	if err != nil {
		return fmt.Errorf(messages.EngineSelectFmt, err)
	}
	log := e.log.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("manager", desc.Name),
		zap.Stringer("operation", op),
	)

	sess, err := e.opener.Open(ctx, e.settings.Session)
	if err != nil {
		return fmt.Errorf(messages.EngineOpenFmt, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("closing shell session", zap.Error(err))
		}
	}()

	outcome, err := auth.Run(ctx, sess, secret, auth.Options{
		Timeout:    e.settings.AuthTimeout,
		Privileged: !sess.Elevated(),
		Logger:     log,
	})
	if err != nil {
		return err
	}
	if err := outcome.Err(); err != nil {
		return err
	}

	command := desc.InstallCommand(pkgs)
	if op == opUninstall {
		command = desc.UninstallCommand(pkgs)
	}
	log.Info("running package manager", zap.Int("packages", len(pkgs)))
	if err := sess.Consume(command); err != nil {
		return fmt.Errorf(messages.EngineSendFmt, op, err)
	}

	return tracer.Trace(ctx, sess.Process(), tracer.Options{
		Ceiling:       e.settings.Ceiling,
		PollInterval:  e.settings.PollInterval,
		FailureMapper: managerFailure(desc.Name),
		Sink:          sink,
		Logger:        log,
	})
}

// managerFailure embeds the exit status and manager name so the caller can look up help text.
func managerFailure(manager string) tracer.FailureMapper {
	return func(status proc.Status) error {
		if status.Err != nil {
			return failure.IO(status.Err)
		}
		return &failure.ProcessFailedError{ExitCode: status.Code, Manager: manager}
	}
}

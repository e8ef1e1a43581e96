package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/limit-lab/limit-up/internal/download"
	"github.com/limit-lab/limit-up/internal/gitsync"
	"github.com/limit-lab/limit-up/internal/lock"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/progressui"
	"github.com/limit-lab/limit-up/internal/tracer"
	"github.com/limit-lab/limit-up/internal/wizard"
)

// envSecret supplies the elevation password when there is no terminal to ask on.
const envSecret = "LIMIT_UP_SECRET"

// releaseFileName is the downloaded server binary under install.root.
const releaseFileName = "limit-server"

const (
	flagPlain    = "plain"
	flagManager  = "manager"
	flagServer   = "server"
	flagCommands = "commands"
)

var (
	runProgress  = progressui.Run
	fetchRelease = download.Fetch
	syncRepo     = gitsync.Sync
	lookupEnv    = os.LookupEnv
	promptSecret = func(title string, value *string) error {
		return wizard.NewHuhUI().SecretInput(title, value)
	}
)

// runOptions selects what an install run does besides the package operation.
type runOptions struct {
	plain   bool
	manager string
	server  bool
}

func newInstallCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs := args
			if len(pkgs) == 0 {
				pkgs = a.cfg.Install.Dependencies
			}
			var secret string
			if len(pkgs) > 0 {
				var err error
				if secret, err = a.resolveSecret(); err != nil {
					return err
				}
			}
			return a.install(cmd, pkgs, secret, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.plain, flagPlain, false, messages.InstallFlagPlain)
	cmd.Flags().StringVar(&opts.manager, flagManager, "", messages.InstallFlagManager)
	cmd.Flags().BoolVar(&opts.server, flagServer, false, messages.InstallFlagServer)
	return cmd
}

func newUninstallCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := a.resolveSecret()
			if err != nil {
				return err
			}
			engine, err := a.engine(opts.manager)
			if err != nil {
				return err
			}
			steps := []progressui.Step{{
				Title: messages.ProgressStepUninstallDeps,
				Run: func(ctx context.Context, sink tracer.Sink) error {
					return engine.Uninstall(ctx, args, secret, sink)
				},
				Ceiling: a.cfg.Trace.Ceiling,
			}}
			return a.runSteps(cmd, steps, opts.plain)
		},
	}
	cmd.Flags().BoolVar(&opts.plain, flagPlain, false, messages.InstallFlagPlain)
	cmd.Flags().StringVar(&opts.manager, flagManager, "", messages.InstallFlagManager)
	return cmd
}

// install runs the package install and, when requested, fetches the server.
func (a *app) install(cmd *cobra.Command, pkgs []string, secret string, opts runOptions) error {
	var steps []progressui.Step
	if len(pkgs) > 0 {
		engine, err := a.engine(opts.manager)
		if err != nil {
			return err
		}
		steps = append(steps, progressui.Step{
			Title: messages.ProgressStepInstallDeps,
			Run: func(ctx context.Context, sink tracer.Sink) error {
				return engine.Install(ctx, pkgs, secret, sink)
			},
			Ceiling: a.cfg.Trace.Ceiling,
		})
	}
	if opts.server {
		step, err := a.serverStep()
		if err != nil {
			return err
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.InstallNothingToDo)
		return nil
	}
	return a.runSteps(cmd, steps, opts.plain)
}

// serverStep downloads the release binary on Linux and syncs the source checkout elsewhere.
func (a *app) serverStep() (progressui.Step, error) {
	if runtimeGOOS == "linux" {
		root, err := a.cfg.InstallRoot()
		if err != nil {
			return progressui.Step{}, err
		}
		return a.downloadStep(a.cfg.Download.URL, filepath.Join(root, releaseFileName)), nil
	}
	dir, err := a.cfg.RepoDir()
	if err != nil {
		return progressui.Step{}, err
	}
	return a.repoStep(a.cfg.Repo.URL, dir, nil), nil
}

func (a *app) downloadStep(url, dest string) progressui.Step {
	return progressui.Step{
		Title: messages.ProgressStepDownload,
		Run: func(ctx context.Context, sink tracer.Sink) error {
			return fetchRelease(ctx, download.Options{URL: url, Dest: dest, Sink: sink, Logger: a.log})
		},
	}
}

// repoStep syncs url into dir. action, when set, receives what the sync did.
func (a *app) repoStep(url, dir string, action *gitsync.Action) progressui.Step {
	return progressui.Step{
		Title: messages.ProgressStepSyncRepo,
		Run: func(ctx context.Context, sink tracer.Sink) error {
			done, err := syncRepo(ctx, gitsync.Options{
				URL:          url,
				Dir:          dir,
				PollInterval: a.cfg.PollInterval(),
				Sink:         sink,
				Logger:       a.log,
			})
			if action != nil {
				*action = done
			}
			return err
		},
		Ceiling: gitsync.Ceiling,
	}
}

// runSteps shows steps on the progress screen while holding the install lock.
// The screen already explains a failure, so the error only carries the exit status.
func (a *app) runSteps(cmd *cobra.Command, steps []progressui.Step, plain bool) error {
	return lock.With(a.paths.LockPath, func() error {
		err := runProgress(cmd.Context(), steps, progressui.Options{
			Plain: plain || !isTerminal(),
			Out:   cmd.OutOrStdout(),
			In:    cmd.InOrStdin(),
		})
		if err != nil {
			return &SilentExitError{Code: exitCodeFor(err)}
		}
		return nil
	})
}

// resolveSecret returns the elevation password, or "" when the session will not need one.
// LIMIT_UP_SECRET wins over prompting so scripted runs never block on a terminal.
func (a *app) resolveSecret() (string, error) {
	req := a.sessionRequest()
	if isPrivileged() || req.RequireRoot || req.ElevationTool == "" {
		return "", nil
	}
	if secret, ok := lookupEnv(envSecret); ok {
		return secret, nil
	}
	if !isTerminal() {
		return "", fmt.Errorf(messages.SecretRequiresTerminalFmt, req.ElevationTool, envSecret)
	}
	var secret string
	if err := promptSecret(fmt.Sprintf(messages.InstallSecretPrompt, req.ElevationTool), &secret); err != nil {
		return "", err
	}
	return secret, nil
}

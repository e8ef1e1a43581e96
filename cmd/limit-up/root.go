package main

import (
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/logging"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/orchestrator"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
	"github.com/limit-lab/limit-up/internal/session"
	"github.com/limit-lab/limit-up/internal/terminal"
)

const (
	flagConfig  = "config"
	flagVerbose = "verbose"

	// annotationLenientConfig marks commands that must run even when the config file is invalid.
	annotationLenientConfig = "limit-up/lenient-config"
)

var (
	isTerminal   = terminal.IsInteractive
	isPrivileged = func() bool { return session.RealSystem{}.IsPrivileged() }
	newOpener    = func() session.Opener { return session.SystemOpener{} }
	runtimeGOOS  = runtime.GOOS
)

var managerSystem pkgmanager.System = pkgmanager.RealSystem{}

// app holds the state shared by every command of one invocation.
type app struct {
	configFlag string
	verbose    bool

	paths config.Paths
	cfg   *config.Config
	log   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationLenientConfig: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.Flags().BoolP("version", "v", false, messages.RootVersionFlag)
	cmd.PersistentFlags().StringVar(&a.configFlag, flagConfig, "", messages.RootConfigFlag)
	cmd.PersistentFlags().BoolVar(&a.verbose, flagVerbose, false, messages.RootVerboseFlag)

	cmd.AddCommand(
		newInstallCmd(a),
		newUninstallCmd(a),
		newDetectCmd(a),
		newDoctorCmd(a),
		newSetupCmd(a),
		newFetchCmd(a),
		newRepoCmd(a),
	)
	return cmd
}

// prepare resolves paths, loads the config, and builds the logger.
func (a *app) prepare(cmd *cobra.Command) error {
	paths, err := config.DefaultPaths(a.configFlag)
	if err != nil {
		return err
	}
	a.paths = paths

	cfg, _, err := config.LoadOrDefault(paths.ConfigPath)
	if err != nil {
		if cmd.Annotations[annotationLenientConfig] == "" {
			return err
		}
		cfg = config.Default()
	}
	a.cfg = cfg

	log, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: a.verbose,
	})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// sessionRequest returns how the shell session is started on this platform.
// FreeBSD has no elevation tool that takes a password on stdin, so it requires root.
func (a *app) sessionRequest() session.Request {
	return session.Request{
		Shell:         a.cfg.Auth.Shell,
		ElevationTool: a.cfg.Auth.ElevationTool,
		RequireRoot:   runtimeGOOS == "freebsd",
	}.WithDefaults()
}

// engine builds the orchestrator from the loaded config. manager overrides install.manager.
func (a *app) engine(manager string) (*orchestrator.Engine, error) {
	if manager == "" {
		manager = a.cfg.Install.Manager
	}
	return orchestrator.New(orchestrator.Deps{
		Catalog: pkgmanager.DefaultCatalog(),
		System:  managerSystem,
		Opener:  newOpener(),
		Logger:  a.log,
		Settings: orchestrator.Settings{
			Manager:      manager,
			Session:      a.sessionRequest(),
			AuthTimeout:  a.cfg.AuthTimeout(),
			PollInterval: a.cfg.PollInterval(),
			Ceiling:      a.cfg.Trace.Ceiling,
		},
	})
}

package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/wizard"
)

var (
	runSetup   = wizard.Run
	newSetupUI = func() wizard.UI { return wizard.NewHuhUI() }
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         messages.SetupUse,
		Short:       messages.SetupShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLenientConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errors.New(messages.SetupRequiresTerminal)
			}
			req := a.sessionRequest()
			return runSetup(cmd.Context(), wizard.Options{
				ConfigPath:    a.paths.ConfigPath,
				UI:            newSetupUI(),
				Privileged:    isPrivileged() || req.RequireRoot,
				ElevationTool: req.ElevationTool,
				Out:           cmd.OutOrStdout(),
				Install: func(ctx context.Context, cfg *config.Config, secret string) error {
					a.cfg = cfg
					return a.install(cmd, cfg.Install.Dependencies, secret, runOptions{})
				},
			})
		},
	}
}

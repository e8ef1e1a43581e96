package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/limit-lab/limit-up/internal/messages"
)

func newDetectCmd(a *app) *cobra.Command {
	var manager string
	var showCommands bool
	cmd := &cobra.Command{
		Use:   messages.DetectUse,
		Short: messages.DetectShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine(manager)
			if err != nil {
				return err
			}
			desc, err := engine.Detect()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.DetectResultFmt, desc.Name)
			if showCommands && len(a.cfg.Install.Dependencies) > 0 {
				_, _ = fmt.Fprintf(out, messages.DetectInstallFmt, desc.InstallCommand(a.cfg.Install.Dependencies))
				_, _ = fmt.Fprintf(out, messages.DetectRemoveFmt, desc.UninstallCommand(a.cfg.Install.Dependencies))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manager, flagManager, "", messages.InstallFlagManager)
	cmd.Flags().BoolVar(&showCommands, flagCommands, false, messages.DetectFlagCommand)
	return cmd
}

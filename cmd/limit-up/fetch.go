package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/limit-lab/limit-up/internal/gitsync"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/progressui"
)

const (
	flagDir = "dir"
	flagURL = "url"
)

func newFetchCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   messages.FetchUse,
		Short: messages.FetchShort,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.cfg.Download.URL
			if len(args) > 0 {
				url = args[0]
			}
			var dest string
			if len(args) > 1 {
				dest = args[1]
			} else {
				root, err := a.cfg.InstallRoot()
				if err != nil {
					return err
				}
				dest = filepath.Join(root, releaseFileName)
			}
			if err := a.runSteps(cmd, []progressui.Step{a.downloadStep(url, dest)}, plain); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.FetchDoneFmt, url, dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, flagPlain, false, messages.InstallFlagPlain)
	return cmd
}

func newRepoCmd(a *app) *cobra.Command {
	var plain bool
	var dir, url string
	cmd := &cobra.Command{
		Use:   messages.RepoUse,
		Short: messages.RepoShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = a.cfg.Repo.URL
			}
			if dir == "" {
				resolved, err := a.cfg.RepoDir()
				if err != nil {
					return err
				}
				dir = resolved
			}
			var action gitsync.Action
			if err := a.runSteps(cmd, []progressui.Step{a.repoStep(url, dir, &action)}, plain); err != nil {
				return err
			}
			if action == gitsync.Cloned {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.RepoClonedFmt, url, dir)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.RepoPulledFmt, dir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, flagPlain, false, messages.InstallFlagPlain)
	cmd.Flags().StringVar(&dir, flagDir, "", messages.RepoFlagDir)
	cmd.Flags().StringVar(&url, flagURL, "", messages.RepoFlagURL)
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/limit-lab/limit-up/internal/doctor"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
)

var runDoctor = doctor.Run

var doctorSystem doctor.System = doctor.RealSystem{}

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         messages.DoctorUse,
		Short:       messages.DoctorShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLenientConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, a.paths.ConfigPath)

			results := runDoctor(a.paths.ConfigPath, a.paths.LockPath, pkgmanager.DefaultCatalog(), doctorSystem)
			for _, r := range results {
				printResult(out, r)
			}

			_, _ = fmt.Fprintln(out)
			switch doctor.Worst(results) {
			case doctor.StatusFail:
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			case doctor.StatusWarn:
				_, _ = fmt.Fprintln(out, color.YellowString(messages.DoctorWarnSummary))
			default:
				_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			}
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}

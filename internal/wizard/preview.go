package wizard

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/messages"
)

func buildSummary(c *Choices) string {
	auto := messages.SetupSummaryNo
	if c.AutoInstall {
		auto = messages.SetupSummaryYes
	}
	pkgs := strings.Join(c.packages(), ", ")
	if pkgs == "" {
		pkgs = messages.SetupSummaryNone
	}
	return strings.Join([]string{
		fmt.Sprintf(messages.SetupSummaryAutoInstallFmt, auto),
		fmt.Sprintf(messages.SetupSummaryRootFmt, strings.TrimSpace(c.Root)),
		fmt.Sprintf(messages.SetupSummaryPackagesFmt, pkgs),
	}, "\n")
}

// buildPreview diffs the current config file against the rendered next config.
func buildPreview(current []byte, next *config.Config) (string, error) {
	rendered, err := config.Render(next)
	if err != nil {
		return "", fmt.Errorf(messages.SetupRenderConfigFailedFmt, err)
	}
	diff := strings.TrimSpace(udiff.Unified(
		"config.toml (current)",
		"config.toml (proposed)",
		string(current),
		string(rendered),
	))
	if diff == "" {
		return messages.SetupNoChanges, nil
	}
	return diff, nil
}

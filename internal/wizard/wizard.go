// Package wizard implements `limit-up setup`: it collects the install settings, previews
// the config change, saves it, and optionally runs the install right away.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
)

var (
	errBack      = errors.New("setup back requested")
	errCancelled = errors.New("setup cancelled")
)

// InstallFunc runs the install for cfg. secret is empty when the caller is privileged.
type InstallFunc func(ctx context.Context, cfg *config.Config, secret string) error

// Options configures Run.
type Options struct {
	ConfigPath string
	UI         UI
	// Privileged skips the password prompt.
	Privileged bool
	// ElevationTool names the tool in the password prompt.
	ElevationTool string
	Install       InstallFunc
	// Out defaults to os.Stdout.
	Out io.Writer
}

type step int

const (
	stepAutoInstall step = iota
	stepRoot
	stepDependencies
	stepSecret
	stepReview
	stepFinished
)

// Run starts the interactive setup.
func Run(ctx context.Context, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	current, err := loadCurrent(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err := config.ParseLenient(current, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf(messages.SetupLoadConfigFailedFmt, opts.ConfigPath, err)
	}
	choices := choicesFromConfig(cfg)
	apply, err := promptFlow(opts, choices, current, cfg)
	if errors.Is(err, errBack) || errors.Is(err, errCancelled) {
		_, _ = fmt.Fprintln(out, messages.SetupExitWithoutChanges)
		return nil
	}
	if err != nil {
		return err
	}
	if !apply {
		_, _ = fmt.Fprintln(out, messages.SetupExitWithoutChanges)
		return nil
	}

	next := choices.apply(cfg)
	if err := config.Write(opts.ConfigPath, next); err != nil {
		return fmt.Errorf(messages.SetupWriteConfigFailedFmt, err)
	}
	_, _ = fmt.Fprintf(out, messages.SetupWroteConfigFmt, opts.ConfigPath)

	if !choices.AutoInstall || opts.Install == nil {
		_, _ = fmt.Fprintln(out, messages.SetupInstallSkipped)
		return nil
	}
	if err := opts.Install(ctx, next, choices.Secret); err != nil {
		return fmt.Errorf(messages.SetupInstallFailedFmt, err)
	}
	_, _ = color.New(color.FgGreen).Fprintln(out, messages.SetupCompleted)
	return nil
}

// loadCurrent returns the config file contents, or nil when it does not exist yet.
func loadCurrent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.SetupLoadConfigFailedFmt, path, err)
	}
	return data, nil
}

// promptFlow walks the steps. Esc on a step rolls its choices back and returns to the
// previous step; Esc on the first step asks whether to exit.
func promptFlow(opts Options, choices *Choices, current []byte, cfg *config.Config) (bool, error) {
	s := stepAutoInstall
	apply := false
	for s != stepFinished {
		snapshot := choices.Clone()
		var err error
		switch s {
		case stepAutoInstall:
			err = opts.UI.Confirm(messages.SetupAutoInstallPrompt, &choices.AutoInstall)
		case stepRoot:
			err = opts.UI.Input(messages.SetupRootTitle, &choices.Root, validateRoot)
		case stepDependencies:
			err = promptDependencies(opts.UI, choices)
		case stepSecret:
			err = promptSecret(opts, choices)
		case stepReview:
			apply, err = review(opts.UI, choices, current, cfg)
		}

		if err == nil {
			s++
			continue
		}
		if !errors.Is(err, errBack) {
			return false, err
		}
		*choices = *snapshot
		if s == stepAutoInstall {
			exit, confirmErr := confirmExit(opts.UI)
			if confirmErr != nil {
				return false, confirmErr
			}
			if exit {
				return false, errCancelled
			}
			continue
		}
		s--
		if s == stepSecret && skipSecret(opts, choices) {
			s--
		}
	}
	return apply, nil
}

func confirmExit(ui UI) (bool, error) {
	exit := true
	if err := ui.Confirm(messages.SetupFirstStepExitPrompt, &exit); err != nil {
		if errors.Is(err, errBack) {
			return false, nil
		}
		return false, err
	}
	return exit, nil
}

func promptDependencies(ui UI, choices *Choices) error {
	field, _ := config.LookupField("install.dependencies")
	if err := ui.MultiSelect(messages.SetupDependenciesTitle, field.Options, &choices.Dependencies); err != nil {
		return err
	}
	return ui.Input(messages.SetupExtraPackagesTitle, &choices.Extra, validateExtra)
}

func skipSecret(opts Options, choices *Choices) bool {
	return opts.Privileged || !choices.AutoInstall
}

func promptSecret(opts Options, choices *Choices) error {
	if skipSecret(opts, choices) {
		choices.Secret = ""
		return nil
	}
	tool := opts.ElevationTool
	if tool == "" {
		tool = "su"
	}
	for {
		secret := choices.Secret
		if err := opts.UI.SecretInput(fmt.Sprintf(messages.SetupSecretPromptFmt, tool), &secret); err != nil {
			return err
		}
		if secret != "" {
			choices.Secret = secret
			return nil
		}
		if err := opts.UI.Note(messages.SetupSecretRequiredTitle, messages.SetupSecretRequiredBody); err != nil {
			return err
		}
	}
}

func review(ui UI, choices *Choices, current []byte, cfg *config.Config) (bool, error) {
	if err := ui.Note(messages.SetupSummaryTitle, buildSummary(choices)); err != nil {
		return false, err
	}
	preview, err := buildPreview(current, choices.apply(cfg))
	if err != nil {
		return false, err
	}
	if err := ui.Note(messages.SetupPreviewTitle, preview); err != nil {
		return false, err
	}
	apply := true
	if err := ui.Confirm(messages.SetupApplyPrompt, &apply); err != nil {
		return false, err
	}
	return apply, nil
}

func validateRoot(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(messages.SetupRootRequired)
	}
	return nil
}

func validateExtra(value string) error {
	for _, name := range strings.Fields(value) {
		if !pkgmanager.ValidPackageName(name) {
			return fmt.Errorf(messages.SetupInvalidPackageFmt, name)
		}
	}
	return nil
}

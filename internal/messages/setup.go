package messages

// Setup wizard messages.
const (
	SetupDepGitDescription    = "git, to clone and update the server repository"
	SetupDepCurlDescription   = "curl, used by the server's helper scripts"
	SetupDepElixirDescription = "Elixir runtime, needed to build the server on FreeBSD"
	SetupDepBuildDescription  = "C compiler and make, for native extensions"

	SetupRequiresTerminal = "setup requires an interactive terminal"

	SetupAutoInstallPrompt     = "Install the limit-server dependencies automatically?"
	SetupFirstStepExitPrompt   = "Exit setup without saving?"
	SetupRootTitle             = "Install directory"
	SetupDependenciesTitle     = "Packages to install"
	SetupExtraPackagesTitle    = "Additional packages (space separated, optional)"
	SetupSecretPromptFmt       = "Password for %s (used once, never saved)"
	SetupSecretRequiredTitle   = "Password required"
	SetupSecretRequiredBody    = "The elevation tool needs a password to install packages. Press esc to go back and skip the automatic install instead."
	SetupSummaryTitle          = "Summary"
	SetupPreviewTitle          = "Config changes"
	SetupApplyPrompt           = "Save this configuration?"
	SetupNoChanges             = "No changes. The config file already matches your choices."
	SetupExitWithoutChanges    = "Exited setup without changes."
	SetupWroteConfigFmt        = "Wrote %s\n"
	SetupCompleted             = "Setup complete."
	SetupInstallSkipped        = "Skipped the automatic install. Run `limit-up install` when you are ready."
	SetupRootRequired          = "install directory is required"
	SetupInvalidPackageFmt     = "%q is not a valid package name"
	SetupLoadConfigFailedFmt   = "failed to read config %s: %w"
	SetupWriteConfigFailedFmt  = "failed to write config: %w"
	SetupRenderConfigFailedFmt = "failed to render config: %w"
	SetupInstallFailedFmt      = "install failed: %w"

	SetupSummaryAutoInstallFmt = "Automatic install: %s"
	SetupSummaryRootFmt        = "Install directory: %s"
	SetupSummaryPackagesFmt    = "Packages: %s"
	SetupSummaryNone           = "(none)"
	SetupSummaryYes            = "yes"
	SetupSummaryNo             = "no"
)

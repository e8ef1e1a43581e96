package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse         = "limit-up"
	// RootShort is the short description for the root command.
	RootShort       = "Install the limit server and the system packages it needs"
	RootLong        = "limit-up detects the system package manager, elevates through su or doas when needed,\nand installs the limit server with live progress."
	RootVersionFlag = "Print version and exit"
	RootConfigFlag  = "Path to the config file (default: user config dir/limit-up/config.toml)"
	RootVerboseFlag = "Write debug logs to stderr"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InstallUse is the install command usage.
	InstallUse          = "install [packages...]"
	InstallShort        = "Install system packages, defaulting to install.dependencies"
	InstallFlagPlain    = "Print progress as plain lines instead of the progress screen"
	InstallFlagManager  = "Use this package manager instead of detecting one"
	InstallFlagServer   = "Also fetch the limit server (release download on Linux, git checkout elsewhere)"
	InstallNothingToDo  = "No packages to install."
	InstallSecretPrompt = "Password for %s"

	UninstallUse   = "uninstall packages..."
	UninstallShort = "Remove system packages with the detected package manager"

	SecretRequiresTerminalFmt = "%s needs a password but there is no terminal to ask for it; set %s or run as root"

	DetectUse         = "detect"
	DetectShort       = "Print the package manager limit-up would use"
	DetectResultFmt   = "%s\n"
	DetectInstallFmt  = "install:   %s\n"
	DetectRemoveFmt   = "uninstall: %s\n"
	DetectFlagCommand = "Also print the rendered install and uninstall commands"

	SetupUse   = "setup"
	SetupShort = "Interactive setup: choose what to install, save the config, and install"

	FetchUse     = "fetch [URL] [DEST]"
	FetchShort   = "Download the server release with progress (defaults from [download])"
	FetchDoneFmt = "Downloaded %s to %s\n"

	RepoUse       = "repo"
	RepoShort     = "Clone or update the server repository (defaults from [repo])"
	RepoFlagDir   = "Checkout directory (default: repo.dir under install.root)"
	RepoFlagURL   = "Repository URL (default: repo.url)"
	RepoClonedFmt = "Cloned %s into %s\n"
	RepoPulledFmt = "Updated %s\n"
)

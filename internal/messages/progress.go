package messages

// Progress screen messages.
const (
	ProgressStepInstallDeps   = "Installing dependencies"
	ProgressStepUninstallDeps = "Removing packages"
	ProgressStepSyncRepo      = "Syncing the server repository"
	ProgressStepDownload      = "Downloading the server release"

	ProgressDone         = "All steps finished."
	ProgressFailedTitle  = "Installation failed"
	ProgressPressAnyKey  = "Press any key to exit."
	ProgressCanceling    = "Stopping the current step..."
	ProgressQuitHint     = "ctrl+c to stop"
	ProgressStepCountFmt = "Step %d of %d: %s"
	ProgressUIFmt        = "progress screen: %w"

	PlainStepFmt    = "==> %s\n"
	PlainPercentFmt = "    [%3d%%]\n"
	PlainStdoutFmt  = "    %s\n"
	PlainStderrFmt  = "  ! %s\n"
	PlainOKFmt      = "    done: %s\n"
)

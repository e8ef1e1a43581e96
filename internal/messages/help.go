package messages

// Help messages shown under a failed step.
const (
	HelpContactUs = "if the problem persists please contact us."
	HelpPrefixFmt = "help: %s"

	HelpNetworkFmt = "Please confirm the network settings and try again, %s"
	HelpGitFmt     = "Check your network settings or delete the repository and try again, %s"

	HelpAptGetFmt = "Run `apt-get update` by hand to check your sources and network, then try again, %s"
	HelpDnfFmt    = "Run `dnf makecache` by hand to check your repositories and network, then try again, %s"
	HelpPacmanFmt = "Run `pacman -Sy` by hand to check your mirrors and keyring, then try again, %s"
	HelpZypperFmt = "Run `zypper refresh` by hand to check your repositories, then try again, %s"
	HelpApkFmt    = "Run `apk update` by hand to check your repositories, then try again, %s"
	HelpPkgFmt    = "Run `pkg update` as root to check your repositories, then try again, %s"

	HelpPermission = "Check the password for the elevation tool, or run limit-up from an account that is already root."
	HelpNoManager  = "No supported package manager was found on PATH. Install the dependencies by hand, then run limit-up again."
	HelpCanceled   = "The step was stopped before it finished. Run limit-up again to retry."

	FailureExitStatusFmt = "%s failed with exit status %d."
	FailureDetailFmt     = "%s failed: %v"
)

package messages

// Doctor messages for the doctor command.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Check privileges, package manager detection, and the config file"

	DoctorHealthCheckFmt = "Checking limit-up readiness (config %s)...\n"

	DoctorCheckNameConfig    = "Config"
	DoctorCheckNamePrivilege = "Privilege"
	DoctorCheckNameShell     = "Shell"
	DoctorCheckNameManager   = "Manager"
	DoctorCheckNameLock      = "Lock"

	DoctorConfigMissingFmt           = "No config file at %s; built-in defaults are used"
	DoctorConfigMissingRecommend     = "Run `limit-up setup` to write one."
	DoctorConfigLoadFailedFmt        = "Failed to load configuration: %v"
	DoctorConfigLoadRecommend        = "Check the file for TOML syntax errors, or delete it and run `limit-up setup`."
	DoctorConfigLoadLenientRecommend = "Run `limit-up setup` to fix the invalid values."
	DoctorConfigLoadedFmt            = "Configuration loaded from %s"

	DoctorConfigUnknownKeysHeader   = "Unrecognized config keys are not supported by this release."
	DoctorConfigUnknownKeysEditFmt  = "Edit %s to remove or rename them."
	DoctorConfigUnknownKeysDetected = "Detected keys:"
	DoctorConfigUnknownKeyFmt       = "- %s"
	DoctorConfigAllowedKeysFmt      = "%s (allowed keys: %s)"
	DoctorConfigNoNestedKeysFmt     = "%s (no nested keys are allowed here)"
	DoctorConfigDidYouMeanFmt       = "%s (did you mean %s?)"
	DoctorConfigUnknownKeysFix      = "Remove the unknown keys above or run `limit-up setup` to regenerate the file."
	DoctorConfigUnknownKeysSummary  = "unrecognized config keys"
	DoctorConfigUnknownKeysListFmt  = "unrecognized config keys: %s"

	DoctorPrivileged                    = "Running with administrative rights; commands run in a plain shell"
	DoctorElevationFoundFmt             = "Not privileged; commands will be elevated with %s (%s)"
	DoctorElevationMissingFmt           = "Not privileged and %s is not on PATH"
	DoctorElevationMissingRecommend     = "Install it, set auth.elevation_tool, or rerun limit-up as root."
	DoctorElevationUnavailable          = "Not privileged and this platform has no elevation tool"
	DoctorElevationUnavailableRecommend = "Rerun limit-up from an elevated account."

	DoctorShellFoundFmt         = "Shell %s found at %s"
	DoctorShellMissingFmt       = "Shell %s is not on PATH"
	DoctorShellMissingRecommend = "Set auth.shell to an installed POSIX shell."

	DoctorManagerDetectedFmt            = "Detected %s at %s"
	DoctorManagerForcedFmt              = "Using %s from install.manager (%s)"
	DoctorManagerForcedMissingFmt       = "install.manager is %s but it is not on PATH"
	DoctorManagerForcedMissingRecommend = "Install %s or remove install.manager so limit-up can detect one."
	DoctorManagerUnknownFmt             = "install.manager %q is not a supported package manager"
	DoctorManagerUnknownHintFmt         = "Did you mean %q? Supported: %s."
	DoctorManagerSupportedFmt           = "Supported: %s."
	DoctorManagerNoneFmt                = "No supported package manager found (looked for %s)"

	DoctorLockFree          = "No other install is running"
	DoctorLockHeldFmt       = "Another limit-up install holds %s"
	DoctorLockHeldRecommend = "Wait for it to finish before installing."
	DoctorLockFailedFmt     = "Failed to inspect the install lock: %v"

	DoctorFailureSummary = "Some checks failed. Address the items above before installing."
	DoctorFailureError   = "doctor checks failed"
	DoctorWarnSummary    = "Ready, with warnings."
	DoctorSuccessSummary = "All checks passed. limit-up is ready to install."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       > "
	DoctorRecommendationIndent = "         "
)

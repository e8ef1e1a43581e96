package messages

// System messages for logging, locking, downloads, and repository sync.
const (
	LogLevelInvalidFmt = "invalid log level %q: %w"
	LogOpenFmt         = "failed to open log file %s: %w"
	LogInitFmt         = "failed to initialize logger: %w"

	// LockOpenFmt formats lock file open failures.
	LockOpenFmt    = "open lock file %s: %w"
	LockFmt        = "lock %s: %w"
	LockTimeoutFmt = "timed out after %s waiting for another limit-up install to finish: %w"

	DownloadRequestFmt          = "download %s: %w"
	DownloadUnexpectedStatusFmt = "download %s: unexpected status %s"
	DownloadUnknownSize         = "unknown size when downloading the release"
	DownloadCreateFmt           = "create %s: %w"
	DownloadWriteFmt            = "write %s: %w"
	DownloadChmodFmt            = "chmod %s: %w"
	DownloadMoveFmt             = "move download into place at %s: %w"

	GitSyncStartFmt   = "failed to start git: %w"
	GitSyncMkdirFmt   = "create %s: %w"
	GitSyncStatFmt    = "inspect %s: %w"
	GitSyncNotRepoFmt = "%s exists but is not a git checkout"
)

package messages

// Engine messages for sessions, authentication, tracing, and orchestration.
const (
	SessionStartFmt        = "failed to start %s: %w"
	SessionRequiresRootFmt = "this platform requires running limit-up as root: %w"
	SessionNoElevationFmt  = "no elevation tool is available; run limit-up from an elevated account: %w"
	SessionWriteFmt        = "failed to write to %s: %w"
	SessionConsumed        = "session stdin already consumed"

	AuthSendSecretFmt = "failed to send the elevation secret: %w"
	AuthSendProbeFmt  = "failed to send the elevation probe: %w"
	AuthWaitFmt       = "failed waiting for the elevation result: %w"
	AuthFailedFmt     = "authentication %s: %w"
	AuthNoTarget      = "authentication target is required"

	TracerReadFmt     = "failed to read %s of %s: %w"
	TracerWaitFmt     = "failed waiting for output of %s: %w"
	TracerCanceledFmt = "%s was stopped before it finished: %w: %w"
	TracerNoProcess   = "tracer requires a process"

	EngineSelectFmt         = "failed to select a package manager: %w"
	EngineUnknownManagerFmt = "unknown package manager %q: %w"
	EngineDidYouMeanFmt     = "unknown package manager %q (did you mean %q?): %w"
	EngineInvalidPackageFmt = "invalid package name %q"
	EngineOpenFmt           = "failed to open a shell session: %w"
	EngineSendFmt           = "failed to send the %s command: %w"
	EngineNoCatalog         = "engine requires a package manager catalog"
	EngineNoOpener          = "engine requires a session opener"
)

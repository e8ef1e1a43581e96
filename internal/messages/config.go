package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigRenderFmt           = "failed to render config: %w"
	ConfigWriteFmt            = "failed to write config %s: %w"
	ConfigUserDirFmt          = "failed to resolve the user config directory: %w"
	ConfigExpandPathFmt       = "failed to expand path %s: %w"

	ConfigInstallRootRequiredFmt = "%s: install.root is required"
	ConfigInvalidDependencyFmt   = "%s: install.dependencies[%d] %q is not a valid package name"
	ConfigUnknownManagerFmt      = "%s: install.manager %q is not a supported package manager"
	ConfigManagerDidYouMeanFmt   = "%s: install.manager %q is not a supported package manager (did you mean %q?)"
	ConfigDurationInvalidFmt     = "%s: %s must be a positive duration such as 5s (got %q)"
	ConfigPollIntervalInvalidFmt = "%s: trace.poll_interval must be a duration such as 100ms, or 0 to wait without bound (got %q)"
	ConfigCeilingRangeFmt        = "%s: trace.ceiling must be between 1 and %d"
	ConfigLogLevelInvalidFmt     = "%s: log.level must be one of %s"
	ConfigURLInvalidFmt          = "%s: %s must be an http or https URL (got %q)"
	ConfigRepoDirRequiredFmt     = "%s: repo.dir is required"
)

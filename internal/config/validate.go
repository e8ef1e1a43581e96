package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
)

// maxCeiling is the largest progress value a sink accepts.
const maxCeiling = 100

// isValidLogLevel checks the value against the config field catalog.
func isValidLogLevel(level string) bool {
	for _, value := range FieldOptionValues("log.level") {
		if value == level {
			return true
		}
	}
	return false
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.Install.Root) == "" {
		return fmt.Errorf(messages.ConfigInstallRootRequiredFmt, path)
	}
	for i, dep := range c.Install.Dependencies {
		if !pkgmanager.ValidPackageName(dep) {
			return fmt.Errorf(messages.ConfigInvalidDependencyFmt, path, i, dep)
		}
	}
	if c.Install.Manager != "" {
		catalog := pkgmanager.DefaultCatalog()
		if _, ok := catalog.Lookup(c.Install.Manager); !ok {
			if hint := catalog.Suggest(c.Install.Manager); hint != "" {
				return fmt.Errorf(messages.ConfigManagerDidYouMeanFmt, path, c.Install.Manager, hint)
			}
			return fmt.Errorf(messages.ConfigUnknownManagerFmt, path, c.Install.Manager)
		}
	}

	if err := validatePositiveDuration(path, "auth.timeout", c.Auth.Timeout); err != nil {
		return err
	}
	if d, err := time.ParseDuration(c.Trace.PollInterval); err != nil || d < 0 {
		return fmt.Errorf(messages.ConfigPollIntervalInvalidFmt, path, c.Trace.PollInterval)
	}
	if c.Trace.Ceiling < 1 || c.Trace.Ceiling > maxCeiling {
		return fmt.Errorf(messages.ConfigCeilingRangeFmt, path, maxCeiling)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path, strings.Join(FieldOptionValues("log.level"), ", "))
	}

	if err := validateHTTPURL(path, "download.url", c.Download.URL); err != nil {
		return err
	}
	if err := validateHTTPURL(path, "repo.url", c.Repo.URL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Repo.Dir) == "" {
		return fmt.Errorf(messages.ConfigRepoDirRequiredFmt, path)
	}
	return nil
}

func validatePositiveDuration(path, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf(messages.ConfigDurationInvalidFmt, path, key, value)
	}
	return nil
}

func validateHTTPURL(path, key, value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(messages.ConfigURLInvalidFmt, path, key, value)
	}
	return nil
}

package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/readiness"
)

// Config is the limit-up configuration file.
type Config struct {
	Install  InstallConfig  `toml:"install"`
	Auth     AuthConfig     `toml:"auth"`
	Trace    TraceConfig    `toml:"trace"`
	Log      LogConfig      `toml:"log"`
	Download DownloadConfig `toml:"download"`
	Repo     RepoConfig     `toml:"repo"`
}

// InstallConfig controls where the server is installed and which packages it needs.
type InstallConfig struct {
	// Root is the install directory. A leading ~ is expanded.
	Root         string   `toml:"root"`
	Dependencies []string `toml:"dependencies"`
	// Manager forces a package manager instead of probing PATH.
	Manager string `toml:"manager,omitempty"`
}

// AuthConfig controls privilege elevation.
type AuthConfig struct {
	Timeout       string `toml:"timeout"`
	ElevationTool string `toml:"elevation_tool,omitempty"`
	Shell         string `toml:"shell,omitempty"`
}

// TraceConfig controls progress tracing of child processes.
type TraceConfig struct {
	PollInterval string `toml:"poll_interval"`
	Ceiling      int    `toml:"ceiling"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DownloadConfig names the release artifact fetched on platforms that use one.
type DownloadConfig struct {
	URL string `toml:"url"`
}

// RepoConfig names the server repository synced on platforms that build from source.
type RepoConfig struct {
	URL string `toml:"url"`
	// Dir is the checkout directory. Relative paths are resolved against install.root.
	Dir string `toml:"dir"`
}

const (
	defaultRoot         = "~/.limit-up"
	defaultRepoURL      = "https://github.com/Limit-LAB/limit-server"
	defaultRepoDir      = "limit-server"
	defaultAuthTimeout  = "5s"
	defaultPollInterval = "100ms"
	defaultCeiling      = 100
	defaultLogLevel     = "info"
	releaseURLFmt       = "https://github.com/Limit-LAB/limit-server/releases/latest/download/limit_up-%s-%s"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Install: InstallConfig{
			Root:         defaultRoot,
			Dependencies: defaultDependencies(runtime.GOOS),
		},
		Auth:     AuthConfig{Timeout: defaultAuthTimeout},
		Trace:    TraceConfig{PollInterval: defaultPollInterval, Ceiling: defaultCeiling},
		Log:      LogConfig{Level: defaultLogLevel},
		Download: DownloadConfig{URL: fmt.Sprintf(releaseURLFmt, runtime.GOARCH, runtime.GOOS)},
		Repo:     RepoConfig{URL: defaultRepoURL, Dir: defaultRepoDir},
	}
}

// defaultDependencies returns the system packages the server needs on goos.
func defaultDependencies(goos string) []string {
	if goos == "freebsd" {
		return []string{"git", "elixir"}
	}
	return []string{"git", "curl"}
}

// AuthTimeout returns the parsed auth.timeout.
func (c *Config) AuthTimeout() time.Duration {
	return mustDuration(c.Auth.Timeout, defaultAuthTimeout)
}

// PollInterval returns the parsed trace.poll_interval. Zero becomes readiness.Forever.
func (c *Config) PollInterval() time.Duration {
	d := mustDuration(c.Trace.PollInterval, defaultPollInterval)
	if d == 0 {
		return readiness.Forever
	}
	return d
}

// InstallRoot returns install.root with ~ expanded.
func (c *Config) InstallRoot() (string, error) {
	root, err := homedir.Expand(c.Install.Root)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, c.Install.Root, err)
	}
	return root, nil
}

// mustDuration parses a value that Validate already checked, falling back to def when empty.
func mustDuration(value, def string) time.Duration {
	if value == "" {
		value = def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

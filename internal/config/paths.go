package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/limit-lab/limit-up/internal/messages"
)

const appDir = "limit-up"

// Paths holds resolved locations of limit-up state.
type Paths struct {
	ConfigPath string
	LockPath   string
}

// DefaultPaths returns the config and lock locations under the user config directory.
// override, when set, replaces the config path; a leading ~ is expanded.
func DefaultPaths(override string) (Paths, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf(messages.ConfigUserDirFmt, err)
	}
	base := filepath.Join(dir, appDir)
	paths := Paths{
		ConfigPath: filepath.Join(base, "config.toml"),
		LockPath:   filepath.Join(base, "install.lock"),
	}
	if override != "" {
		expanded, err := homedir.Expand(override)
		if err != nil {
			return Paths{}, fmt.Errorf(messages.ConfigExpandPathFmt, override, err)
		}
		paths.ConfigPath = expanded
	}
	return paths, nil
}

// RepoDir returns repo.dir resolved against the install root.
func (c *Config) RepoDir() (string, error) {
	dir, err := homedir.Expand(c.Repo.Dir)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, c.Repo.Dir, err)
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	root, err := c.InstallRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, dir), nil
}

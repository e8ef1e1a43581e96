package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limit-lab/limit-up/internal/readiness"
)

const sampleConfig = `
[install]
root = "/opt/limit"
dependencies = ["git", "elixir"]
manager = "pkg"

[auth]
timeout = "8s"
elevation_tool = "doas"

[trace]
poll_interval = "250ms"
ceiling = 99

[log]
level = "debug"
file = "/tmp/limit-up.log"

[download]
url = "https://example.com/limit-server.AppImage"

[repo]
url = "https://example.com/limit-server.git"
dir = "src/limit-server"
`

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate("default"))
	assert.Equal(t, 5*time.Second, cfg.AuthTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.NotEmpty(t, cfg.Install.Dependencies)
}

func TestZeroPollIntervalWaitsWithoutBound(t *testing.T) {
	cfg := Default()
	cfg.Trace.PollInterval = "0s"
	require.NoError(t, cfg.Validate("test.toml"))
	assert.Equal(t, readiness.Forever, cfg.PollInterval())

	cfg.Trace.PollInterval = ""
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
}

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), "sample")
	require.NoError(t, err)

	assert.Equal(t, "/opt/limit", cfg.Install.Root)
	assert.Equal(t, []string{"git", "elixir"}, cfg.Install.Dependencies)
	assert.Equal(t, "pkg", cfg.Install.Manager)
	assert.Equal(t, 8*time.Second, cfg.AuthTimeout())
	assert.Equal(t, "doas", cfg.Auth.ElevationTool)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 99, cfg.Trace.Ceiling)
	assert.Equal(t, "debug", cfg.Log.Level)

	dir, err := cfg.RepoDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/limit", "src/limit-server"), dir)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[log]\nlevel = \"warn\"\n"), "partial")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, Default().Install, cfg.Install)
	assert.Equal(t, Default().Trace, cfg.Trace)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[auth]\ntimeuot = \"5s\"\n"), "typo")
	require.ErrorIs(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "typo")
}

func TestParseSyntaxErrorIsNotValidation(t *testing.T) {
	_, err := Parse([]byte("[install\n"), "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigValidation))
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Install.Root = " " }, "install.root"},
		{"bad dependency", func(c *Config) { c.Install.Dependencies = []string{"git", "curl;id"} }, "install.dependencies[1]"},
		{"unknown manager", func(c *Config) { c.Install.Manager = "brew" }, "install.manager"},
		{"misspelled manager", func(c *Config) { c.Install.Manager = "pacmn" }, `did you mean "pacman"`},
		{"bad timeout", func(c *Config) { c.Auth.Timeout = "soon" }, "auth.timeout"},
		{"zero timeout", func(c *Config) { c.Auth.Timeout = "0s" }, "auth.timeout"},
		{"negative poll", func(c *Config) { c.Trace.PollInterval = "-1s" }, "trace.poll_interval"},
		{"bad poll", func(c *Config) { c.Trace.PollInterval = "often" }, "or 0 to wait without bound"},
		{"ceiling too high", func(c *Config) { c.Trace.Ceiling = 101 }, "trace.ceiling"},
		{"ceiling zero", func(c *Config) { c.Trace.Ceiling = 0 }, "trace.ceiling"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad download url", func(c *Config) { c.Download.URL = "ftp://example.com/x" }, "download.url"},
		{"bad repo url", func(c *Config) { c.Repo.URL = "not a url" }, "repo.url"},
		{"empty repo dir", func(c *Config) { c.Repo.Dir = "" }, "repo.dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate("test.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.True(t, strings.HasPrefix(err.Error(), "test.toml: "))
		})
	}
}

func TestParseLenientSkipsValidation(t *testing.T) {
	cfg, err := ParseLenient([]byte("[trace]\nceiling = 500\n"), "lenient")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Trace.Ceiling)

	_, err = ParseLenient([]byte("= nope"), "lenient")
	require.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Install.Root = "/srv/limit"
	cfg.Install.Dependencies = []string{"git"}

	require.NoError(t, Write(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, found, err := LoadOrDefault(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[trace]\nceiling = -1\n"), 0o644))
	_, _, err = LoadOrDefault(bad)
	require.ErrorIs(t, err, ErrConfigValidation)
}

func TestLoadMissingFileWrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestInstallRootExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	cfg := Default()
	cfg.Install.Root = "~/limit"

	root, err := cfg.InstallRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "limit"), root)
}

func TestRepoDirAbsolute(t *testing.T) {
	cfg := Default()
	cfg.Repo.Dir = "/var/lib/limit-server"
	dir, err := cfg.RepoDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/limit-server", dir)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	paths, err := DefaultPaths("")
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(paths.ConfigPath))
	assert.Equal(t, filepath.Dir(paths.ConfigPath), filepath.Dir(paths.LockPath))

	paths, err = DefaultPaths("/etc/limit-up.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/limit-up.toml", paths.ConfigPath)
}

func TestDefaultDependencies(t *testing.T) {
	assert.Contains(t, defaultDependencies("freebsd"), "elixir")
	assert.NotContains(t, defaultDependencies("linux"), "elixir")
}

func TestFieldRegistry(t *testing.T) {
	f, ok := LookupField("log.level")
	require.True(t, ok)
	assert.Equal(t, FieldEnum, f.Type)
	assert.Equal(t, []string{"debug", "info", "warn", "error"}, FieldOptionValues("log.level"))

	f.Options[0].Value = "mutated"
	assert.Equal(t, "debug", FieldOptionValues("log.level")[0])

	_, ok = LookupField("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, FieldOptionValues("install.root"))

	deps, ok := LookupField("install.dependencies")
	require.True(t, ok)
	assert.Equal(t, FieldList, deps.Type)
	assert.Contains(t, FieldOptionValues("install.dependencies"), "git")
}

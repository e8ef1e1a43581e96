package main

// NOTE: Tests in this package mutate package-level seams (isTerminal, isPrivileged,
// newOpener, managerSystem, runProgress, fetchRelease, syncRepo, lookupEnv, promptSecret,
// runSetup, runDoctor, runtimeGOOS). Do not use t.Parallel(); restore via t.Cleanup().

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/limit-lab/limit-up/internal/session"
)

// cliEnv points the config and lock at a temp dir and makes the run non-interactive.
type cliEnv struct {
	dir        string
	configPath string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(envSecret, "")
	_ = os.Unsetenv(envSecret)

	origTerminal, origPrivileged, origOpener, origGOOS := isTerminal, isPrivileged, newOpener, runtimeGOOS
	origNoColor := color.NoColor
	t.Cleanup(func() {
		isTerminal, isPrivileged, newOpener, runtimeGOOS = origTerminal, origPrivileged, origOpener, origGOOS
		color.NoColor = origNoColor
	})
	isTerminal = func() bool { return false }
	isPrivileged = func() bool { return true }
	newOpener = func() session.Opener { return session.SystemOpener{System: session.Privileged(true)} }
	runtimeGOOS = "linux"
	color.NoColor = true

	return cliEnv{dir: dir, configPath: filepath.Join(dir, "config.toml")}
}

func (e cliEnv) writeConfig(t *testing.T, body string) {
	t.Helper()
	if err := os.WriteFile(e.configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// run executes the CLI with --config pointing at the env and returns output and exit code.
func (e cliEnv) run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := 0
	full := append([]string{"limit-up", "--config=" + e.configPath}, args...)
	runMain(full, &stdout, &stderr, func(c int) { code = c })
	return stdout.String(), stderr.String(), code
}

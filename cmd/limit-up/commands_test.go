package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/doctor"
	"github.com/limit-lab/limit-up/internal/download"
	"github.com/limit-lab/limit-up/internal/gitsync"
	"github.com/limit-lab/limit-up/internal/pkgmanager"
	"github.com/limit-lab/limit-up/internal/wizard"
)

func stubDoctor(t *testing.T, results []doctor.Result) *[2]string {
	t.Helper()
	orig := runDoctor
	t.Cleanup(func() { runDoctor = orig })
	var paths [2]string
	runDoctor = func(configPath, lockPath string, _ pkgmanager.Catalog, _ doctor.System) []doctor.Result {
		paths = [2]string{configPath, lockPath}
		return results
	}
	return &paths
}

func TestDoctorAllOK(t *testing.T) {
	env := newCLIEnv(t)
	paths := stubDoctor(t, []doctor.Result{
		{Status: doctor.StatusOK, CheckName: "Manager", Message: "Detected apk at /sbin/apk"},
	})

	stdout, _, code := env.run("doctor")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "[OK]   Manager    Detected apk at /sbin/apk") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "All checks passed.") {
		t.Fatalf("expected success summary:\n%s", stdout)
	}
	if paths[0] != env.configPath || filepath.Base(paths[1]) != "install.lock" {
		t.Fatalf("doctor paths = %v", *paths)
	}
}

func TestDoctorWarnings(t *testing.T) {
	env := newCLIEnv(t)
	stubDoctor(t, []doctor.Result{
		{Status: doctor.StatusWarn, CheckName: "Config", Message: "No config file", Recommendation: "Run setup.\n\nThen retry."},
	})

	stdout, _, code := env.run("doctor")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"[WARN] Config", "       > Run setup.\n         \n         Then retry.\n", "Ready, with warnings."} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestDoctorFailureReturnsError(t *testing.T) {
	env := newCLIEnv(t)
	stubDoctor(t, []doctor.Result{
		{Status: doctor.StatusOK, CheckName: "Shell", Message: "ok"},
		{Status: doctor.StatusFail, CheckName: "Privilege", Message: "no su"},
	})

	stdout, stderr, code := env.run("doctor")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "[FAIL] Privilege") || !strings.Contains(stderr, "doctor checks failed") {
		t.Fatalf("stdout = %q, stderr = %q", stdout, stderr)
	}
}

func TestDoctorRunsWithInvalidConfig(t *testing.T) {
	env := newCLIEnv(t)
	env.writeConfig(t, "[trace]\nceiling = 500\n")
	stubDoctor(t, nil)

	if _, stderr, code := env.run("doctor"); code != 0 {
		t.Fatalf("doctor should tolerate an invalid config, code = %d, stderr = %q", code, stderr)
	}
}

func TestSetupRequiresTerminal(t *testing.T) {
	env := newCLIEnv(t)
	_, stderr, code := env.run("setup")
	if code != 1 || !strings.Contains(stderr, "terminal") {
		t.Fatalf("code = %d, stderr = %q", code, stderr)
	}
}

func TestSetupPassesOptionsAndInstalls(t *testing.T) {
	env := newCLIEnv(t)
	env.writeConfig(t, "[auth]\nelevation_tool = \"doas\"\n")
	isTerminal = func() bool { return true }
	isPrivileged = func() bool { return false }

	origSetup, origUI := runSetup, newSetupUI
	t.Cleanup(func() { runSetup, newSetupUI = origSetup, origUI })
	newSetupUI = func() wizard.UI { return nil }

	var got wizard.Options
	runSetup = func(ctx context.Context, opts wizard.Options) error {
		got = opts
		cfg := config.Default()
		cfg.Install.Dependencies = nil
		return opts.Install(ctx, cfg, "pw")
	}

	stdout, _, code := env.run("setup")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got.ConfigPath != env.configPath || got.Privileged || got.ElevationTool != "doas" {
		t.Fatalf("unexpected options: %+v", got)
	}
	if !strings.Contains(stdout, "No packages to install.") {
		t.Fatalf("expected install to run with the wizard config:\n%s", stdout)
	}
}

func TestSetupPropagatesWizardError(t *testing.T) {
	env := newCLIEnv(t)
	isTerminal = func() bool { return true }
	orig := runSetup
	t.Cleanup(func() { runSetup = orig })
	runSetup = func(context.Context, wizard.Options) error { return errors.New("wizard broke") }

	if _, stderr, code := env.run("setup"); code != 1 || !strings.Contains(stderr, "wizard broke") {
		t.Fatalf("code = %d, stderr = %q", code, stderr)
	}
}

func TestFetchCommand(t *testing.T) {
	env := newCLIEnv(t)
	orig := fetchRelease
	t.Cleanup(func() { fetchRelease = orig })

	var got download.Options
	fetchRelease = func(ctx context.Context, opts download.Options) error {
		got = opts
		return nil
	}
	dest := filepath.Join(env.dir, "server")
	stdout, _, code := env.run("fetch", "https://example.com/server", dest)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got.URL != "https://example.com/server" || got.Dest != dest {
		t.Fatalf("unexpected options: %+v", got)
	}
	if !strings.Contains(stdout, "Downloaded https://example.com/server to "+dest) {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestFetchFailureExitsSilently(t *testing.T) {
	env := newCLIEnv(t)
	orig := fetchRelease
	t.Cleanup(func() { fetchRelease = orig })
	fetchRelease = func(context.Context, download.Options) error { return download.ErrUnknownSize }

	stdout, stderr, code := env.run("fetch")
	if code != 1 || stderr != "" {
		t.Fatalf("code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "unknown size") {
		t.Fatalf("expected failure notice:\n%s", stdout)
	}
}

func TestRepoCommand(t *testing.T) {
	env := newCLIEnv(t)
	orig := syncRepo
	t.Cleanup(func() { syncRepo = orig })

	action := gitsync.Cloned
	var got gitsync.Options
	syncRepo = func(ctx context.Context, opts gitsync.Options) (gitsync.Action, error) {
		got = opts
		return action, nil
	}
	dir := filepath.Join(env.dir, "checkout")

	stdout, _, code := env.run("repo", "--dir", dir, "--url", "https://example.com/x.git")
	if code != 0 || !strings.Contains(stdout, "Cloned https://example.com/x.git into "+dir) {
		t.Fatalf("code = %d, stdout = %q", code, stdout)
	}
	if got.Dir != dir || got.PollInterval <= 0 {
		t.Fatalf("unexpected options: %+v", got)
	}

	action = gitsync.Pulled
	stdout, _, code = env.run("repo", "--dir", dir)
	if code != 0 || !strings.Contains(stdout, "Updated "+dir) {
		t.Fatalf("code = %d, stdout = %q", code, stdout)
	}
}

func TestPrintRecommendation(t *testing.T) {
	var out bytes.Buffer
	printRecommendation(&out, "one\ntwo")
	if out.String() != "       > one\n         two\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/limit-lab/limit-up/internal/failure"
)

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"limit-up", "--version"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainHelpWithoutArgs(t *testing.T) {
	newCLIEnv(t)
	var out bytes.Buffer
	if err := execute([]string{"limit-up"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), "install") || !strings.Contains(out.String(), "doctor") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRunMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"limit-up", "unknown"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func TestRunMainExitCodes(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput bool
	}{
		{"success", nil, 0, false},
		{"silent", &SilentExitError{Code: 7}, 7, false},
		{"process failed", fmt.Errorf("wrap: %w", &failure.ProcessFailedError{ExitCode: 100, Manager: "apt-get"}), 100, true},
		{"canceled", fmt.Errorf("stop: %w", failure.ErrCanceled), exitCanceled, true},
		{"plain", errors.New("boom"), 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			executeFunc = func([]string, io.Writer, io.Writer) error { return tc.err }
			var stderr bytes.Buffer
			code := 0
			runMain([]string{"limit-up"}, io.Discard, &stderr, func(c int) { code = c })
			if code != tc.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tc.wantCode)
			}
			if got := stderr.Len() > 0; got != tc.wantOutput {
				t.Fatalf("stderr output = %q, want output %v", stderr.String(), tc.wantOutput)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	if got := exitCodeFor(&failure.ProcessFailedError{ExitCode: 0}); got != 1 {
		t.Fatalf("zero exit status should map to 1, got %d", got)
	}
	if got := exitCodeFor(context.Canceled); got != exitCanceled {
		t.Fatalf("context.Canceled = %d, want %d", got, exitCanceled)
	}
	if got := exitCodeFor(failure.ErrPermissionDenied); got != 1 {
		t.Fatalf("permission denied = %d, want 1", got)
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origBuild })

	Version, Commit, BuildDate = "v1.2.3", "unknown", "unknown"
	if got := versionString(); got != "v1.2.3" {
		t.Fatalf("versionString = %q", got)
	}
	Commit, BuildDate = "abc123", "2026-01-02"
	if got := versionString(); got != "v1.2.3 (commit abc123, built 2026-01-02)" {
		t.Fatalf("versionString = %q", got)
	}
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	os.Args = []string{"limit-up", "--version"}
	main()
}

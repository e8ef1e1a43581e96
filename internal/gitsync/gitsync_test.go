//go:build !windows

package gitsync

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/testutil"
	"github.com/limit-lab/limit-up/internal/tracer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGit records its arguments next to itself and simulates clone and pull.
const fakeGit = `
dir=$(dirname "$0")
echo "$@" >> "$dir/args.log"
case "$1" in
clone)
	mkdir -p "$4/.git"
	echo "Cloning into '$4'..."
	echo "remote: Counting objects" >&2
	;;
-C)
	echo "Already up to date."
	;;
esac
exit ${FAKE_GIT_EXIT:-0}
`

type recorder struct {
	mu      sync.Mutex
	reports []tracer.Report
}

func (r *recorder) sink(rep tracer.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *recorder) last() tracer.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports[len(r.reports)-1]
}

func setup(t *testing.T) (git string, bin string) {
	t.Helper()
	bin = t.TempDir()
	return testutil.WriteScript(t, bin, "git", fakeGit), bin
}

func readArgs(t *testing.T, bin string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(bin, "args.log"))
	require.NoError(t, err)
	return string(data)
}

func TestSyncClonesMissingCheckout(t *testing.T) {
	git, bin := setup(t)
	dir := filepath.Join(t.TempDir(), "root", "limit-server")
	rec := &recorder{}

	action, err := Sync(context.Background(), Options{URL: "https://example.com/limit-server", Dir: dir, Git: git, Sink: rec.sink})
	require.NoError(t, err)
	assert.Equal(t, Cloned, action)
	assert.Equal(t, "clone --recursive https://example.com/limit-server "+dir+"\n", readArgs(t, bin))
	assert.DirExists(t, filepath.Join(dir, ".git"))

	assert.Equal(t, Ceiling, rec.last().Progress)
	for _, rep := range rec.reports {
		assert.GreaterOrEqual(t, rep.Progress, StartProgress)
	}
}

func TestSyncPullsExistingCheckout(t *testing.T) {
	git, bin := setup(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	rec := &recorder{}

	action, err := Sync(context.Background(), Options{URL: "unused", Dir: dir, Git: git, Sink: rec.sink})
	require.NoError(t, err)
	assert.Equal(t, Pulled, action)
	assert.Equal(t, "-C "+dir+" pull --recurse-submodules\n", readArgs(t, bin))

	var lines []string
	for _, rep := range rec.reports {
		if line, ok := rep.Line(); ok {
			lines = append(lines, line.Text)
		}
	}
	assert.Equal(t, []string{"Already up to date."}, lines)
}

func TestSyncFailureNamesGit(t *testing.T) {
	git, _ := setup(t)
	t.Setenv("FAKE_GIT_EXIT", "128")
	rec := &recorder{}

	_, err := Sync(context.Background(), Options{URL: "u", Dir: filepath.Join(t.TempDir(), "x"), Git: git, Sink: rec.sink})
	pf, ok := failure.AsProcessFailed(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, 128, pf.ExitCode)
	assert.Equal(t, "git", pf.Command)
	for _, rep := range rec.reports {
		assert.Less(t, rep.Progress, Ceiling)
	}
}

func TestSyncMissingGit(t *testing.T) {
	_, err := Sync(context.Background(), Options{URL: "u", Dir: filepath.Join(t.TempDir(), "x"), Git: filepath.Join(t.TempDir(), "no-git")})
	require.ErrorIs(t, err, failure.ErrIO)
}

func TestPlan(t *testing.T) {
	root := t.TempDir()

	action, err := Plan(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Equal(t, Cloned, action)

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	action, err = Plan(empty)
	require.NoError(t, err)
	assert.Equal(t, Cloned, action)

	cluttered := filepath.Join(root, "cluttered")
	require.NoError(t, os.MkdirAll(filepath.Join(cluttered, "src"), 0o755))
	_, err = Plan(cluttered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git checkout")

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Plan(file)
	require.Error(t, err)

	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	action, err = Plan(repo)
	require.NoError(t, err)
	assert.Equal(t, Pulled, action)
}

//go:build unix

package readiness

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	return r, w
}

func TestWaitNoStreams(t *testing.T) {
	_, err := Wait(nil, 0)
	require.ErrorIs(t, err, ErrNoStreams)
}

func TestWaitTimeoutWithoutData(t *testing.T) {
	r, _ := pipe(t)

	start := time.Now()
	ready, err := Wait([]Stream{r}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready.Any())
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitZeroTimeoutPolls(t *testing.T) {
	r, _ := pipe(t)
	ready, err := Wait([]Stream{r}, 0)
	require.NoError(t, err)
	assert.Equal(t, Ready{false}, ready)
}

func TestWaitReportsOnlyReadyStream(t *testing.T) {
	outR, outW := pipe(t)
	errR, _ := pipe(t)

	_, err := outW.Write([]byte("hello\n"))
	require.NoError(t, err)

	ready, err := Wait([]Stream{outR, errR}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Ready{true, false}, ready)

	buf := make([]byte, 16)
	n, err := outR.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(buf[:n]))
}

func TestWaitHangupIsReady(t *testing.T) {
	r, w := pipe(t)
	require.NoError(t, w.Close())

	ready, err := Wait([]Stream{r}, time.Second)
	require.NoError(t, err)
	assert.True(t, ready.Any())

	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestWaitForeverUnblocksOnWrite(t *testing.T) {
	r, w := pipe(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("x"))
	}()

	ready, err := Wait([]Stream{r}, Forever)
	require.NoError(t, err)
	assert.True(t, ready[0])
}

func TestPollMillisRoundsUp(t *testing.T) {
	assert.Equal(t, -1, pollMillis(Forever, time.Time{}))
	assert.Equal(t, 0, pollMillis(0, time.Time{}))
	assert.Equal(t, 0, pollMillis(time.Second, time.Now().Add(-time.Second)))
	assert.GreaterOrEqual(t, pollMillis(time.Second, time.Now().Add(500*time.Microsecond)), 1)
}

// Package download fetches a release artifact over HTTP and reports progress from its
// Content-Length through the same sink the tracer uses.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/tracer"
)

// ErrUnknownSize is returned when the server does not send a Content-Length.
var ErrUnknownSize = errors.New(messages.DownloadUnknownSize)

const (
	chunkSize = 32 * 1024
	fileMode  = 0o755
)

// Options configures Fetch.
type Options struct {
	URL  string
	Dest string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Sink receives the integer percentage each time it changes.
	Sink   tracer.Sink
	Logger *zap.Logger
}

// Fetch downloads opts.URL into opts.Dest and marks it executable. The body is written
// to a temporary file next to Dest and renamed over it once complete, so a failed
// download never leaves a truncated artifact behind.
func Fetch(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return fmt.Errorf(messages.DownloadRequestFmt, opts.URL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf(messages.DownloadRequestFmt, opts.URL, fmt.Errorf("%w: %w", failure.ErrCanceled, ctx.Err()))
		}
		return fmt.Errorf(messages.DownloadRequestFmt, opts.URL, failure.IO(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.DownloadUnexpectedStatusFmt, opts.URL, resp.Status)
	}
	if resp.ContentLength < 0 {
		return ErrUnknownSize
	}
	log.Debug("download started", zap.String("url", opts.URL), zap.Int64("bytes", resp.ContentLength))

	dir := filepath.Dir(opts.Dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.DownloadCreateFmt, dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(opts.Dest)+".*")
	if err != nil {
		return fmt.Errorf(messages.DownloadCreateFmt, opts.Dest, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := copyWithProgress(ctx, tmp, resp.Body, resp.ContentLength, opts.Sink); err != nil {
		return fmt.Errorf(messages.DownloadWriteFmt, opts.Dest, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return fmt.Errorf(messages.DownloadChmodFmt, opts.Dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.DownloadWriteFmt, opts.Dest, err)
	}
	if err := os.Rename(tmpPath, opts.Dest); err != nil {
		return fmt.Errorf(messages.DownloadMoveFmt, opts.Dest, err)
	}
	committed = true
	log.Debug("download finished", zap.String("dest", opts.Dest))
	return nil
}

// copyWithProgress copies total bytes from r to w, calling sink whenever the integer
// percentage changes. A body shorter than total is an error.
func copyWithProgress(ctx context.Context, w io.Writer, r io.Reader, total int64, sink tracer.Sink) error {
	emit := func(pct int) {
		if sink != nil {
			sink(tracer.Report{Progress: pct})
		}
	}
	if total == 0 {
		emit(100)
		return nil
	}

	buf := make([]byte, chunkSize)
	var current int64
	last := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", failure.ErrCanceled, err)
		}
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return failure.IO(err)
			}
			current += int64(n)
			pct := int(current * 100 / total)
			if pct > 100 {
				pct = 100
			}
			if pct != last {
				emit(pct)
				last = pct
			}
		}
		if errors.Is(readErr, io.EOF) {
			if current < total {
				return failure.IO(io.ErrUnexpectedEOF)
			}
			return nil
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %w", failure.ErrCanceled, ctx.Err())
			}
			return failure.IO(readErr)
		}
	}
}

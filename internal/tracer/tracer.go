// Package tracer streams the output of a running child to a sink while driving a bounded
// progress counter, and maps the child's exit status to success or failure.
//
// Progress advances by one for every readiness event but stops one short of the ceiling;
// only a confirmed successful exit moves it to the ceiling, so a consumer never shows a
// finished state for a process that may still fail.
package tracer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/proc"
	"github.com/limit-lab/limit-up/internal/readiness"
)

const (
	// DefaultCeiling is the progress value reported on success when Options.Ceiling is unset.
	DefaultCeiling = 100
	// DefaultPollInterval bounds each readiness wait when Options.PollInterval is unset.
	DefaultPollInterval = 100 * time.Millisecond
)

// ctxCheckEvery bounds readiness waits when the poll interval is unbounded but ctx can be canceled.
var ctxCheckEvery = 250 * time.Millisecond

const readSize = 4096

// Origin tells which stream a line came from.
type Origin int

const (
	Stdout Origin = iota
	Stderr
)

func (o Origin) String() string {
	if o == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of child output without its terminator.
type Line struct {
	Origin Origin
	Text   string
}

// Progress is the counter driven by Trace.
type Progress struct {
	Current int
	Ceiling int
}

// advance moves Current forward by one without reaching Ceiling.
func (p *Progress) advance() bool {
	if p.Current+1 >= p.Ceiling {
		return false
	}
	p.Current++
	return true
}

// Report is what the sink receives. Stdout and Stderr are empty unless a line arrived on
// that stream; at most one of them is set.
type Report struct {
	Progress int
	Stdout   string
	Stderr   string
}

// Line returns the line carried by r, if any.
func (r Report) Line() (Line, bool) {
	switch {
	case r.Stdout != "":
		return Line{Origin: Stdout, Text: r.Stdout}, true
	case r.Stderr != "":
		return Line{Origin: Stderr, Text: r.Stderr}, true
	default:
		return Line{}, false
	}
}

// Sink receives reports from the tracing goroutine, in stream order.
type Sink func(Report)

// FailureMapper turns an unsuccessful exit into the error Trace returns.
type FailureMapper func(status proc.Status) error

// Process is a running child whose output can be traced. *proc.Child satisfies it.
type Process interface {
	Name() string
	Stdout() readiness.Stream
	Stderr() readiness.Stream
	Exited() (proc.Status, bool)
	Done() <-chan struct{}
	Kill() error
}

// Options configures Trace.
type Options struct {
	// Start is the initial progress value. It is clamped below Ceiling.
	Start int
	// Ceiling is reported once the process exits successfully. Zero uses DefaultCeiling.
	Ceiling int
	// PollInterval bounds each readiness wait so exits are noticed while a grandchild still
	// holds the pipes open. Zero uses DefaultPollInterval; readiness.Forever waits without bound.
	PollInterval time.Duration
	// FailureMapper builds the error for a non-zero exit. Nil reports a *failure.ProcessFailedError
	// naming the process.
	FailureMapper FailureMapper
	Sink          Sink
	Logger        *zap.Logger
}

type stream struct {
	origin Origin
	r      readiness.Stream
	lines  lineBuffer
	eof    bool
}

type tracer struct {
	p        Process
	opts     Options
	log      *zap.Logger
	progress Progress
	streams  [2]*stream
	buf      []byte
	emitted  [2]int
}

// Trace reads p's stdout and stderr until p exits, forwarding every line to opts.Sink.
// It returns nil only when p exited with status zero. A read failure is fatal and wraps
// failure.ErrIO. When ctx is canceled, p is killed and an error wrapping failure.ErrCanceled
// is returned. Trace blocks and must not run on a UI loop.
func Trace(ctx context.Context, p Process, opts Options) error {
	if p == nil {
		return errors.New(messages.TracerNoProcess)
	}
	if opts.Ceiling <= 0 {
		opts.Ceiling = DefaultCeiling
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Sink == nil {
		opts.Sink = func(Report) {}
	}
	if opts.FailureMapper == nil {
		opts.FailureMapper = defaultFailure(p.Name())
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	t := &tracer{
		p:        p,
		opts:     opts,
		log:      log.With(zap.String("process", p.Name())),
		progress: Progress{Current: clamp(opts.Start, 0, opts.Ceiling-1), Ceiling: opts.Ceiling},
		streams: [2]*stream{
			{origin: Stdout, r: p.Stdout()},
			{origin: Stderr, r: p.Stderr()},
		},
		buf: make([]byte, readSize),
	}
	return t.run(ctx)
}

func (t *tracer) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return t.cancel(err)
		}

		open := t.openStreams()
		if len(open) == 0 {
			// Both pipes hit EOF; only the exit is left to observe.
			select {
			case <-t.p.Done():
			case <-ctx.Done():
				return t.cancel(ctx.Err())
			}
		} else if err := t.step(ctx, open); err != nil {
			return err
		}

		status, exited := t.p.Exited()
		if !exited {
			continue
		}
		if err := t.drain(); err != nil {
			return err
		}
		t.log.Debug("process exited",
			zap.Int("code", status.Code),
			zap.Int("stdout_lines", t.emitted[Stdout]),
			zap.Int("stderr_lines", t.emitted[Stderr]))
		if status.Success() {
			t.progress.Current = t.progress.Ceiling
			t.opts.Sink(Report{Progress: t.progress.Current})
			return nil
		}
		return t.opts.FailureMapper(status)
	}
}

// step waits for readiness once and reads every ready stream once.
func (t *tracer) step(ctx context.Context, open []*stream) error {
	handles := make([]readiness.Stream, len(open))
	for i, s := range open {
		handles[i] = s.r
	}
	ready, err := readiness.Wait(handles, t.waitTimeout(ctx))
	if err != nil {
		return fmt.Errorf(messages.TracerWaitFmt, t.p.Name(), failure.IO(err))
	}
	if !ready.Any() {
		return nil
	}

	advanced := t.progress.advance()
	sent := false
	for i, s := range open {
		if !ready[i] {
			continue
		}
		n, err := t.read(s)
		if err != nil {
			return err
		}
		sent = sent || n > 0
	}
	if advanced && !sent {
		t.opts.Sink(Report{Progress: t.progress.Current})
	}
	return nil
}

// drain emits whatever is readable right now on streams that are still open, then flushes
// partial lines. It never waits for more output.
func (t *tracer) drain() error {
	for _, s := range t.streams {
		for !s.eof {
			ready, err := readiness.Wait([]readiness.Stream{s.r}, 0)
			if err != nil {
				return fmt.Errorf(messages.TracerWaitFmt, t.p.Name(), failure.IO(err))
			}
			if !ready[0] {
				break
			}
			if _, err := t.read(s); err != nil {
				return err
			}
		}
		t.flush(s)
	}
	return nil
}

// read performs one read on s and emits the complete lines it produced.
func (t *tracer) read(s *stream) (int, error) {
	n, err := s.r.Read(t.buf)
	lines := s.lines.feed(t.buf[:n])
	for _, line := range lines {
		t.emit(s.origin, line)
	}
	switch {
	case err == nil:
		return len(lines), nil
	case errors.Is(err, io.EOF):
		s.eof = true
		if t.flush(s) {
			return len(lines) + 1, nil
		}
		return len(lines), nil
	default:
		return len(lines), fmt.Errorf(messages.TracerReadFmt, s.origin, t.p.Name(), failure.IO(err))
	}
}

func (t *tracer) flush(s *stream) bool {
	line, ok := s.lines.flush()
	if ok {
		t.emit(s.origin, line)
	}
	return ok
}

func (t *tracer) emit(origin Origin, text string) {
	report := Report{Progress: t.progress.Current}
	if origin == Stderr {
		report.Stderr = text
	} else {
		report.Stdout = text
	}
	t.emitted[origin]++
	t.opts.Sink(report)
}

func (t *tracer) openStreams() []*stream {
	open := make([]*stream, 0, len(t.streams))
	for _, s := range t.streams {
		if !s.eof {
			open = append(open, s)
		}
	}
	return open
}

func (t *tracer) waitTimeout(ctx context.Context) time.Duration {
	if t.opts.PollInterval < 0 && ctx.Done() != nil {
		return ctxCheckEvery
	}
	return t.opts.PollInterval
}

// cancel kills the process and reports the cancellation as a failure.
func (t *tracer) cancel(cause error) error {
	if err := t.p.Kill(); err != nil {
		t.log.Warn("kill after cancel failed", zap.Error(err))
	}
	return fmt.Errorf(messages.TracerCanceledFmt, t.p.Name(), failure.ErrCanceled, cause)
}

func defaultFailure(name string) FailureMapper {
	return func(status proc.Status) error {
		if status.Err != nil {
			return failure.IO(status.Err)
		}
		return &failure.ProcessFailedError{ExitCode: status.Code, Command: name}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

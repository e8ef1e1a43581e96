// Package auth confirms that an elevation tool accepted the secret it was given.
//
// su and similar tools report nothing structured before the wrapped shell starts, so the
// outcome is inferred from which stream answers a probe command first: the shell writing
// the probe's output to stdout means elevation succeeded, an error message on stderr means
// it did not.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/readiness"
)

// DefaultTimeout bounds the wait for an answer to the probe.
const DefaultTimeout = 5 * time.Second

const probeCommand = "whoami"

// drainLimit caps the reads spent discarding prompt noise so a chatty stderr cannot stall Run.
const drainLimit = 64

// ctxCheckEvery is how often the probe race looks at the context while waiting.
var ctxCheckEvery = 100 * time.Millisecond

// Outcome is the result of one authentication attempt.
type Outcome int

const (
	Authenticated Outcome = iota
	Denied
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case Denied:
		return "denied"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Err returns nil for Authenticated and an error wrapping failure.ErrPermissionDenied otherwise.
// A timeout is treated exactly like a denial.
func (o Outcome) Err() error {
	if o == Authenticated {
		return nil
	}
	return fmt.Errorf(messages.AuthFailedFmt, o, failure.ErrPermissionDenied)
}

// State is a step of the protocol.
type State int

const (
	Start State = iota
	PasswordSent
	ProbeSent
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case PasswordSent:
		return "password-sent"
	case ProbeSent:
		return "probe-sent"
	default:
		return "unknown"
	}
}

// Target is the shell being authenticated. *session.Session satisfies it.
type Target interface {
	WriteCommand(text string) error
	Stdout() readiness.Stream
	Stderr() readiness.Stream
}

// Options configures Run.
type Options struct {
	// Timeout bounds the probe race. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Privileged skips sending the secret; the probe is still sent so the shell is known to be live.
	// An empty secret is skipped the same way.
	Privileged bool
	Logger     *zap.Logger
}

// Run drives the protocol against target. The returned Outcome is only meaningful when err is nil;
// err reports write or wait failures and context cancellation.
// The secret is written to target and nowhere else.
func Run(ctx context.Context, target Target, secret string, opts Options) (Outcome, error) {
	if target == nil {
		return Denied, errors.New(messages.AuthNoTarget)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	state := Start
	log.Debug("auth state", zap.Stringer("state", state), zap.Bool("privileged", opts.Privileged))

	// An empty secret is never sent; the tool then reads the probe as its password and denies.
	if !opts.Privileged && secret != "" {
		if err := target.WriteCommand(secret); err != nil {
			return Denied, fmt.Errorf(messages.AuthSendSecretFmt, err)
		}
		state = PasswordSent
		log.Debug("auth state", zap.Stringer("state", state))
		drain(target.Stderr())
	}

	if err := target.WriteCommand(probeCommand); err != nil {
		return Denied, fmt.Errorf(messages.AuthSendProbeFmt, err)
	}
	state = ProbeSent
	log.Debug("auth state", zap.Stringer("state", state))

	outcome, err := race(ctx, target, timeout)
	if err != nil {
		return Denied, err
	}
	log.Debug("auth outcome", zap.Stringer("outcome", outcome))
	return outcome, nil
}

// race waits for the first stream to answer the probe. stdout wins ties.
func race(ctx context.Context, target Target, timeout time.Duration) (Outcome, error) {
	streams := []readiness.Stream{target.Stdout(), target.Stderr()}
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return Denied, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return TimedOut, nil
		}
		ready, err := readiness.Wait(streams, min(remaining, ctxCheckEvery))
		if err != nil {
			return Denied, fmt.Errorf(messages.AuthWaitFmt, failure.IO(err))
		}
		switch {
		case ready[0]:
			// The probe's output must not reach whoever traces the shell next.
			drain(target.Stdout())
			return Authenticated, nil
		case ready[1]:
			return Denied, nil
		}
	}
}

// drain discards whatever s has buffered right now. It never blocks and never fails.
func drain(s readiness.Stream) {
	buf := make([]byte, 512)
	for range drainLimit {
		ready, err := readiness.Wait([]readiness.Stream{s}, 0)
		if err != nil || !ready[0] {
			return
		}
		if n, err := s.Read(buf); n == 0 || err != nil {
			return
		}
	}
}

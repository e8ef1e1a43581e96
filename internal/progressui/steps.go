// Package progressui runs install steps on a background worker and shows their progress,
// either on a bubbletea screen or as plain lines for non-interactive output.
package progressui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/limit-lab/limit-up/internal/tracer"
)

// Step is one unit of work shown on the progress screen.
type Step struct {
	Title string
	Run   func(ctx context.Context, sink tracer.Sink) error
	// Ceiling is the Progress value Run reports when it completes. Zero means 100.
	Ceiling int
}

// percent scales a progress value reported by s to 0..100.
func (s Step) percent(progress int) int {
	ceiling := s.Ceiling
	if ceiling <= 0 {
		ceiling = 100
	}
	return min(max(progress*100/ceiling, 0), 100)
}

type stepStartedMsg struct{ index int }

type reportMsg struct{ report tracer.Report }

type stepDoneMsg struct {
	index int
	err   error
}

type allDoneMsg struct{ err error }

// runSteps executes steps in order on the calling goroutine and describes what happens
// through send. It stops at the first failing step.
func runSteps(ctx context.Context, steps []Step, send func(tea.Msg)) error {
	var err error
	for i, step := range steps {
		send(stepStartedMsg{index: i})
		err = step.Run(ctx, func(r tracer.Report) {
			r.Progress = step.percent(r.Progress)
			send(reportMsg{report: r})
		})
		send(stepDoneMsg{index: i, err: err})
		if err != nil {
			break
		}
	}
	send(allDoneMsg{err: err})
	return err
}

package progressui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/tracer"
)

// percentStep is how far progress has to move before the plain printer reports it again.
const percentStep = 10

// RunPlain executes steps on the calling goroutine and prints their output as lines.
func RunPlain(ctx context.Context, steps []Step, out io.Writer) error {
	pr := &plainPrinter{out: out, steps: steps, red: color.New(color.FgRed), green: color.New(color.FgGreen)}
	return runSteps(ctx, steps, pr.handle)
}

type plainPrinter struct {
	out          io.Writer
	steps        []Step
	red, green   *color.Color
	lastReported int
}

func (p *plainPrinter) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case stepStartedMsg:
		p.lastReported = 0
		_, _ = fmt.Fprintf(p.out, messages.PlainStepFmt, p.steps[msg.index].Title)
	case reportMsg:
		if line, ok := msg.report.Line(); ok {
			if line.Origin == tracer.Stderr {
				_, _ = p.red.Fprintf(p.out, messages.PlainStderrFmt, line.Text)
			} else {
				_, _ = fmt.Fprintf(p.out, messages.PlainStdoutFmt, line.Text)
			}
			return
		}
		if pct := msg.report.Progress; pct >= p.lastReported+percentStep {
			p.lastReported = pct - pct%percentStep
			_, _ = fmt.Fprintf(p.out, messages.PlainPercentFmt, p.lastReported)
		}
	case stepDoneMsg:
		title := p.steps[msg.index].Title
		if msg.err != nil {
			_, _ = p.red.Fprintln(p.out, failure.Render(title, msg.err))
			return
		}
		_, _ = p.green.Fprintf(p.out, messages.PlainOKFmt, title)
	}
}

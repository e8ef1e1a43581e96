package progressui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/terminal"
)

// Options configures Run.
type Options struct {
	// Plain prints progress as lines instead of drawing a screen.
	Plain bool
	// Out defaults to os.Stderr; In defaults to os.Stdin.
	Out io.Writer
	In  io.Reader
	// Width is the starting screen width. Zero asks the terminal behind Out.
	Width int
}

// programOptions lets tests drive the screen without a terminal.
var programOptions = func(opts Options) []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithOutput(opts.Out), tea.WithInput(opts.In)}
}

// Run executes steps on a worker goroutine and draws the screen on a second one, returning
// once both have stopped. It returns the first step error; ctrl+c on the screen cancels the
// running step.
func Run(ctx context.Context, steps []Step, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Plain {
		return RunPlain(ctx, steps, opts.Out)
	}
	if opts.Width == 0 {
		if f, ok := opts.Out.(*os.File); ok {
			opts.Width = terminal.Width(f, defaultWidth)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(steps, opts.Width, cancel), programOptions(opts)...)

	var stepErr error
	var g errgroup.Group
	g.Go(func() error {
		stepErr = runSteps(ctx, steps, p.Send)
		return nil
	})
	g.Go(func() error {
		_, err := p.Run()
		// The screen is gone; stop any step still running so the worker returns.
		cancel()
		if err != nil {
			return fmt.Errorf(messages.ProgressUIFmt, err)
		}
		return nil
	})
	uiErr := g.Wait()
	if stepErr != nil {
		return stepErr
	}
	return uiErr
}

package progressui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/limit-lab/limit-up/internal/failure"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/tracer"
)

const (
	maxLines     = 8
	defaultWidth = 80
	barPadding   = 4
)

type stepState int

const (
	statePending stepState = iota
	stateRunning
	stateDone
	stateFailed
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stderrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	noticeStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("1")).
			Padding(0, 1)

	cancelKey = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "stop"))
)

type model struct {
	titles  []string
	states  []stepState
	current int
	percent int
	lines   []tracer.Line

	bar    progress.Model
	width  int
	cancel func()

	canceling bool
	finished  bool
	err       error
	notice    string
}

func newModel(steps []Step, width int, cancel func()) model {
	titles := make([]string, len(steps))
	for i, s := range steps {
		titles[i] = s.Title
	}
	if width <= 0 {
		width = defaultWidth
	}
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = width - barPadding
	return model{
		titles: titles,
		states: make([]stepState, len(steps)),
		bar:    bar,
		width:  width,
		cancel: cancel,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-barPadding, 10)
	case tea.KeyMsg:
		if m.finished {
			return m, tea.Quit
		}
		if key.Matches(msg, cancelKey) && !m.canceling {
			m.canceling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	case stepStartedMsg:
		m.current = msg.index
		m.states[msg.index] = stateRunning
		m.percent = 0
		m.lines = nil
	case reportMsg:
		m.percent = msg.report.Progress
		if line, ok := msg.report.Line(); ok {
			m.lines = append(m.lines, line)
			if len(m.lines) > maxLines {
				m.lines = m.lines[len(m.lines)-maxLines:]
			}
		}
	case stepDoneMsg:
		if msg.err != nil {
			m.states[msg.index] = stateFailed
			m.notice = failure.Render(m.titles[msg.index], msg.err)
		} else {
			m.states[msg.index] = stateDone
		}
	case allDoneMsg:
		m.finished = true
		m.err = msg.err
		if msg.err == nil {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	for i, title := range m.titles {
		b.WriteString(stepMarker(m.states[i]))
		b.WriteString(" ")
		if i == m.current && m.states[i] == stateRunning {
			b.WriteString(titleStyle.Render(title))
		} else {
			b.WriteString(title)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.finished && m.err != nil {
		b.WriteString(noticeStyle.Render(titleStyle.Render(messages.ProgressFailedTitle) + "\n" + m.notice))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(messages.ProgressPressAnyKey))
		b.WriteString("\n")
		return b.String()
	}
	if m.finished {
		b.WriteString(successStyle.Render(messages.ProgressDone))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.titles) > 0 {
		fmt.Fprintf(&b, messages.ProgressStepCountFmt, m.current+1, len(m.titles), m.titles[m.current])
		b.WriteString("\n")
	}
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		text := runewidth.Truncate(line.Text, max(m.width-2, 1), "…")
		if line.Origin == tracer.Stderr {
			text = stderrStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.canceling {
		b.WriteString(mutedStyle.Render(messages.ProgressCanceling))
	} else {
		b.WriteString(mutedStyle.Render(messages.ProgressQuitHint))
	}
	b.WriteString("\n")
	return b.String()
}

func stepMarker(s stepState) string {
	switch s {
	case stateRunning:
		return "•"
	case stateDone:
		return successStyle.Render("✓")
	case stateFailed:
		return stderrStyle.Render("✗")
	default:
		return mutedStyle.Render("○")
	}
}

package wizard

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/messages"
	"github.com/limit-lab/limit-up/internal/terminal"
)

// UI defines the interaction methods.
type UI interface {
	Select(title string, options []string, current *string) error
	MultiSelect(title string, options []config.FieldOption, selected *[]string) error
	Confirm(title string, value *bool) error
	Input(title string, value *string, validate func(string) error) error
	SecretInput(title string, value *string) error
	Note(title string, body string) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
	ctrlCAbort bool // set by the key filter while a form runs
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI that checks terminal.IsInteractive before each form.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return errors.New(messages.SetupRequiresTerminal)
}

// setupKeyMap maps Esc to back and Ctrl+C to exit. Both abort the form; runForm tells
// them apart. The Prev and Next bindings only carry the help hints.
func setupKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	escBack := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	km.MultiSelect.Prev = escBack
	km.Select.Prev = escBack
	km.Confirm.Prev = escBack
	km.Input.Prev = escBack
	km.Note.Prev = escBack

	ctrlCExit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit"))
	km.MultiSelect.Next = ctrlCExit
	km.Select.Next = ctrlCExit
	km.Confirm.Next = ctrlCExit
	km.Input.Next = ctrlCExit
	km.Note.Next = ctrlCExit

	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// hintField keeps the esc/ctrl+c hints visible. huh disables Prev and Next on the
// first and last field of a group, which in a single-field form is always.
type hintField struct {
	huh.Field
	km *huh.KeyMap
}

func (f *hintField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := f.Field.Update(msg)
	if field, ok := model.(huh.Field); ok {
		f.Field = field
	}
	return f, cmd
}

func (f *hintField) WithPosition(p huh.FieldPosition) huh.Field {
	f.Field.WithPosition(p)
	f.WithKeyMap(f.km)
	return f
}

func newHintField(field huh.Field) huh.Field {
	return &hintField{Field: field, km: setupKeyMap()}
}

// formFilter records Ctrl+C presses and turns interrupts into a clean quit so the
// renderer clears the form.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			ui.ctrlCAbort = true
		}
		if _, ok := msg.(tea.InterruptMsg); ok {
			return tea.QuitMsg{}
		}
		return msg
	}
}

// runForm returns errBack for Esc and errCancelled for Ctrl+C.
func (ui *HuhUI) runForm(form *huh.Form) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}

	ui.ctrlCAbort = false
	form.WithKeyMap(setupKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithReportFocus(),
		tea.WithFilter(ui.formFilter()),
	)

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		if ui.ctrlCAbort {
			return errCancelled
		}
		return errBack
	}
	return err
}

// runField shows field alone in a one-group form.
func (ui *HuhUI) runField(field huh.Field) error {
	return ui.runForm(huh.NewForm(huh.NewGroup(newHintField(field))))
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	return ui.runField(huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(current))
}

// MultiSelect renders a multi-choice prompt. Options with a description show it as the label.
func (ui *HuhUI) MultiSelect(title string, options []config.FieldOption, selected *[]string) error {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		label := o.Value
		if o.Description != "" {
			label = o.Description
		}
		opts = append(opts, huh.NewOption(label, o.Value))
	}
	return ui.runField(huh.NewMultiSelect[string]().
		Title(title).
		Filterable(false).
		Options(opts...).
		Value(selected))
}

func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runField(huh.NewConfirm().Title(title).Value(value))
}

// Input renders a text prompt. validate may be nil.
func (ui *HuhUI) Input(title string, value *string, validate func(string) error) error {
	input := huh.NewInput().Title(title).Value(value)
	if validate != nil {
		input = input.Validate(validate)
	}
	return ui.runField(input)
}

// SecretInput renders a masked prompt. The value is never echoed.
func (ui *HuhUI) SecretInput(title string, value *string) error {
	return ui.runField(huh.NewInput().
		Title(title).
		Value(value).
		EchoMode(huh.EchoModePassword))
}

func (ui *HuhUI) Note(title string, body string) error {
	return ui.runField(huh.NewNote().Title(title).Description(body))
}

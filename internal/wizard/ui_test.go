package wizard

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limit-lab/limit-up/internal/config"
)

func stubRunForm(t *testing.T, fn func(*huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	runFormFunc = fn
	t.Cleanup(func() { runFormFunc = orig })
}

func TestNewHuhUI(t *testing.T) {
	ui := NewHuhUI()
	require.NotNil(t, ui)
	assert.NotNil(t, ui.isTerminal)
}

func TestHuhUIRequiresTerminal(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return false }}
	var s string
	var b bool
	var list []string

	for name, call := range map[string]func() error{
		"Select":      func() error { return ui.Select("t", []string{"a"}, &s) },
		"MultiSelect": func() error { return ui.MultiSelect("t", []config.FieldOption{{Value: "git"}}, &list) },
		"Confirm":     func() error { return ui.Confirm("t", &b) },
		"Input":       func() error { return ui.Input("t", &s, nil) },
		"SecretInput": func() error { return ui.SecretInput("t", &s) },
		"Note":        func() error { return ui.Note("t", "body") },
	} {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "interactive terminal")
		})
	}
}

func TestHuhUIRunsForm(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	calls := 0
	stubRunForm(t, func(form *huh.Form) error {
		assert.NotNil(t, form)
		calls++
		return nil
	})

	var s string
	require.NoError(t, ui.Input("Root", &s, func(string) error { return nil }))
	require.NoError(t, ui.SecretInput("Password", &s))
	var list []string
	require.NoError(t, ui.MultiSelect("Packages", []config.FieldOption{{Value: "git", Description: "git"}, {Value: "curl"}}, &list))
	assert.Equal(t, 3, calls)
}

func TestHuhUIAbortClassification(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	var s string

	stubRunForm(t, func(*huh.Form) error {
		ui.ctrlCAbort = true
		return huh.ErrUserAborted
	})
	require.ErrorIs(t, ui.Input("first", &s, nil), errCancelled)

	// The flag is reset before each form.
	stubRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })
	require.ErrorIs(t, ui.Input("second", &s, nil), errBack)

	boom := errors.New("boom")
	stubRunForm(t, func(*huh.Form) error { return boom })
	require.ErrorIs(t, ui.Confirm("third", new(bool)), boom)
}

func TestFormFilter(t *testing.T) {
	ui := &HuhUI{}
	filter := ui.formFilter()

	assert.IsType(t, tea.QuitMsg{}, filter(nil, tea.InterruptMsg{}))
	assert.False(t, ui.ctrlCAbort)

	assert.IsType(t, tea.WindowSizeMsg{}, filter(nil, tea.WindowSizeMsg{Width: 80}))
	assert.False(t, ui.ctrlCAbort)

	assert.IsType(t, tea.KeyMsg{}, filter(nil, tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, ui.ctrlCAbort)
}

func TestHintFieldSurvivesFormConstruction(t *testing.T) {
	form := huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewMultiSelect[string]().
				Title("Packages").
				Filterable(false).
				Options(huh.NewOption("git", "git"), huh.NewOption("curl", "curl"))),
		),
	)
	form.WithKeyMap(setupKeyMap())

	var hints []string
	for _, b := range form.KeyBinds() {
		if b.Enabled() {
			hints = append(hints, b.Help().Key+" "+b.Help().Desc)
		}
	}
	assert.Contains(t, hints, "esc back")
	assert.Contains(t, hints, "ctrl+c exit")
}

func TestHintFieldUpdateKeepsWrapper(t *testing.T) {
	wrapped := newHintField(huh.NewInput().Title("Root"))
	model, _ := wrapped.Update(nil)
	_, ok := model.(*hintField)
	assert.True(t, ok)
}

func TestSetupKeyMap(t *testing.T) {
	km := setupKeyMap()
	assert.ElementsMatch(t, []string{"ctrl+c", "esc"}, km.Quit.Keys())
	assert.Equal(t, "back", km.Input.Prev.Help().Desc)
	assert.Equal(t, []string{"ctrl+c"}, km.Confirm.Next.Keys())
	assert.False(t, km.Select.Filter.Enabled())
}

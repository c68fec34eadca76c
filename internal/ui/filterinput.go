package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FilterInput is a controlled text field. Every edit hands the full value
// to onChange; there is no debouncing and an empty value clears the filter.
type FilterInput struct {
	input    textinput.Model
	onChange func(string) error
	err      error
}

func NewFilterInput(placeholder string, onChange func(string) error) FilterInput {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = placeholder
	in.CharLimit = 256
	return FilterInput{input: in, onChange: onChange}
}

func (f *FilterInput) Focus() tea.Cmd { return f.input.Focus() }
func (f *FilterInput) Blur()          { f.input.Blur() }
func (f *FilterInput) Focused() bool  { return f.input.Focused() }
func (f *FilterInput) Value() string  { return f.input.Value() }

// Err is the setter's verdict on the current value, e.g. a bad regex.
func (f *FilterInput) Err() error { return f.err }

// SetValue replaces the text and notifies the setter.
func (f *FilterInput) SetValue(s string) {
	f.input.SetValue(s)
	f.emit()
}

func (f *FilterInput) Update(msg tea.Msg) tea.Cmd {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.emit()
	}
	return cmd
}

func (f *FilterInput) emit() {
	if f.onChange == nil {
		return
	}
	f.err = f.onChange(f.input.Value())
}

func (f *FilterInput) View() string { return f.input.View() }

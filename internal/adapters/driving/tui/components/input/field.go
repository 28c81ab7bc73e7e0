// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
)

// Field is a labelled single-line text input used by the parameter form.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	hint      string
}

// NewField creates a blurred field with the given label and placeholder.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
	}
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label, the framed input and any hint.
func (f *Field) View() string {
	label := f.styles.Label.Render(f.label)
	frame := f.styles.InputField
	if f.textinput.Focused() {
		frame = f.styles.FocusedField
		label = f.styles.Title.Width(f.styles.Label.GetWidth()).Render(f.label)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, label, frame.Render(f.textinput.View()))
	if f.hint != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, "  ", f.styles.Error.Render(f.hint))
	}
	return row
}

// Label returns the field caption.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// SetHint shows a short message next to the field. An empty hint clears it.
func (f *Field) SetHint(hint string) {
	f.hint = hint
}

// Hint returns the current hint.
func (f *Field) Hint() string {
	return f.hint
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input area.
func (f *Field) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	f.textinput.Width = width
}

// Width returns the width of the input area.
func (f *Field) Width() int {
	return f.textinput.Width
}

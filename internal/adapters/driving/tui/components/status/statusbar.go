// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/changegear/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady       State = "ready"
	StateEditing     State = "editing"
	StateCalculating State = "calculating"
	StateResults     State = "results"
	StateHistory     State = "history"
	StateError       State = "error"
	StateHelp        State = "help"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	trainCount int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateCalculating:
		return s.styles.Muted.Render("Calculating...")
	case StateEditing:
		return s.styles.Normal.Render("New calculation")
	case StateHistory:
		return s.styles.Normal.Render("History")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateResults:
		text := fmt.Sprintf("%d trains", s.trainCount)
		if s.trainCount == 1 {
			text = "1 train"
		}
		if s.message != "" {
			text += " · " + s.message
		}
		return s.styles.Normal.Render(text)
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateEditing:
		bindings = s.keymap.FormHelp()
	case StateCalculating:
		bindings = s.keymap.ProgressHelp()
	case StateResults:
		bindings = s.keymap.ResultsHelp()
	case StateHistory:
		bindings = s.keymap.HistoryHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetTrainCount sets the number of trains on screen.
func (s *Bar) SetTrainCount(count int) {
	s.trainCount = count
}

// TrainCount returns the number of trains on screen.
func (s *Bar) TrainCount() int {
	return s.trainCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.trainCount = 0
}

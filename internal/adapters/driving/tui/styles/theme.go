// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Accent marks titles, focus and the cursor.
	Accent lipgloss.Color

	// Highlight marks secondary headings and the progress bar.
	Highlight lipgloss.Color

	// Surface is the background of the status bar.
	Surface lipgloss.Color

	// Text is the default text colour.
	Text lipgloss.Color

	// Dim is for labels and hints.
	Dim lipgloss.Color

	// Good marks the best train and successful saves.
	Good lipgloss.Color

	// Caution marks partial results.
	Caution lipgloss.Color

	// Bad marks errors.
	Bad lipgloss.Color

	// Frame is the border colour.
	Frame lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#D4A017"), // brass
		Highlight: lipgloss.Color("#5FA8D3"), // steel blue
		Surface:   lipgloss.Color("#1B1F24"),
		Text:      lipgloss.Color("#E6E1D6"),
		Dim:       lipgloss.Color("#7D8590"),
		Good:      lipgloss.Color("#22C55E"),
		Caution:   lipgloss.Color("#F59E0B"),
		Bad:       lipgloss.Color("#EF4444"),
		Frame:     lipgloss.Color("#3A4048"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Label is the caption of a form field or detail line.
	Label lipgloss.Style

	// Value is the content next to a Label.
	Value lipgloss.Style

	// Best marks the top-ranked train.
	Best lipgloss.Style

	// InputField frames an unfocused form field.
	InputField lipgloss.Style

	// FocusedField frames the focused form field.
	FocusedField lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	field := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Surface).
			Background(theme.Accent),
		Error:   lipgloss.NewStyle().Foreground(theme.Bad),
		Success: lipgloss.NewStyle().Foreground(theme.Good),
		Warning: lipgloss.NewStyle().Foreground(theme.Caution),

		Label: lipgloss.NewStyle().Foreground(theme.Dim).Width(18),
		Value: lipgloss.NewStyle().Foreground(theme.Text),
		Best:  lipgloss.NewStyle().Bold(true).Foreground(theme.Good),

		InputField:   field.BorderForeground(theme.Frame),
		FocusedField: field.BorderForeground(theme.Accent),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Surface).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Dim),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

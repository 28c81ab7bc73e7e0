// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/changegear/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewForm is the calculation parameter form.
	ViewForm
	// ViewProgress shows a running search.
	ViewProgress
	// ViewResults lists the ranked trains of a calculation.
	ViewResults
	// ViewHistory lists saved calculations.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewForm:
		return "form"
	case ViewProgress:
		return "progress"
	case ViewResults:
		return "results"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// CalculationRequested asks the app to start a search with validated params.
type CalculationRequested struct {
	Params domain.CalculationParams
}

// CalculationCompleted carries a finished search. Complete is false when the
// user stopped the search early and the trains are partial.
type CalculationCompleted struct {
	Calculation *domain.Calculation
	Complete    bool
	Err         error
}

// CalculationSaved signals a calculation was written to the history.
type CalculationSaved struct {
	ID  string
	Err error
}

// HistoryLoaded carries saved calculations, newest first.
type HistoryLoaded struct {
	Calculations []domain.Calculation
	Err          error
}

// CalculationSelected signals a saved calculation was opened.
type CalculationSelected struct {
	Calculation domain.Calculation
}

// CalculationDeleted signals a saved calculation was removed.
type CalculationDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

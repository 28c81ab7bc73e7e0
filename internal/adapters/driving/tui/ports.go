// Package tui provides an interactive terminal user interface for changegear.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Calculator validates parameters and runs searches.
	Calculator driving.CalculatorService

	// History stores and lists finished calculations. Optional.
	History driving.HistoryService

	// Settings supplies the form defaults. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	calculator driving.CalculatorService,
	history driving.HistoryService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Calculator: calculator,
		History:    history,
		Settings:   settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if a required port is nil.
func (p *Ports) Validate() error {
	if p.Calculator == nil {
		return ErrMissingCalculatorService
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Calculator runs gear train searches.
	Calculator driving.CalculatorService

	// History serves saved calculations.
	History driving.HistoryService

	// Settings supplies defaults for parameters a tool call leaves out.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Calculator == nil {
		return ErrMissingCalculatorService
	}
	// History and Settings are optional
	return nil
}

// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The calculator service owns parameter validation and drives the search
// engine in wall-clock slices, so callers can redraw progress or cancel
// between slices without the engine knowing about time.
package services

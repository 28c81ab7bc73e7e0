package domain

import "time"

// CalculatorDefaults pre-fill calculation parameters in the CLI, TUI and MCP tool.
type CalculatorDefaults struct {
	// Params are the default calculation inputs.
	Params CalculationParams
}

// DisplaySettings controls how results are presented.
type DisplaySettings struct {
	// ResultLimit is the number of ranked trains shown and kept in history.
	ResultLimit int
}

// SearchSettings controls how the search is driven.
type SearchSettings struct {
	// StepBudget is the wall-clock slice given to the engine before
	// control returns to the caller (progress redraw, cancellation check).
	StepBudget time.Duration
}

// HistorySettings controls calculation persistence.
type HistorySettings struct {
	// Enabled saves every completed calculation.
	Enabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Calculator holds default calculation inputs.
	Calculator CalculatorDefaults

	// Display holds result presentation settings.
	Display DisplaySettings

	// Search holds search stepping settings.
	Search SearchSettings

	// History holds persistence settings.
	History HistorySettings
}

// DefaultChangeGears is a common metric lathe change-gear set.
func DefaultChangeGears() []int {
	return []int{20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 127}
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Calculator: CalculatorDefaults{
			Params: CalculationParams{
				ShaftCount:       3,
				ChangeGears:      DefaultChangeGears(),
				SharedInputGears: true,
				TargetMultiplier: 1,
				Module:           1,
				Addendum:         1,
			},
		},
		Display: DisplaySettings{
			ResultLimit: 20,
		},
		Search: SearchSettings{
			StepBudget: 50 * time.Millisecond,
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}

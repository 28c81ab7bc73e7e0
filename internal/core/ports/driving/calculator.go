package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// ProgressFunc receives counter snapshots while a calculation runs.
type ProgressFunc func(domain.Progress)

// CalculatorService runs gear train searches.
type CalculatorService interface {
	// Validate normalises and checks params without starting a search.
	// Failures wrap domain.ErrInvalidParams.
	Validate(params domain.CalculationParams) (domain.CalculationParams, error)

	// NewRun validates params and prepares a search the caller drives
	// one budgeted slice at a time.
	NewRun(params domain.CalculationParams) (CalculationRun, error)

	// Calculate drives a search to completion, reporting progress between
	// slices. It returns domain.ErrCalculationCancelled if ctx ends first.
	Calculate(ctx context.Context, params domain.CalculationParams, onProgress ProgressFunc) (*domain.Calculation, error)
}

// CalculationRun is a single search in progress.
// A run is owned by one caller and is not safe for concurrent use.
type CalculationRun interface {
	// Step advances the search until it completes or budget elapses.
	// Returns true once the search is complete.
	Step(budget time.Duration) bool

	// Progress returns the current counters.
	Progress() domain.Progress

	// Params returns the normalised parameters of the run.
	Params() domain.CalculationParams

	// Done returns true once the search is complete.
	Done() bool

	// Finish ranks the accepted trains and returns the calculation.
	// Finishing an incomplete run ends it with partial results.
	// A second call returns domain.ErrRunFinished.
	Finish() (*domain.Calculation, error)
}

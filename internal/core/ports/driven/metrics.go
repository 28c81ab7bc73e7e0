package driven

import (
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// MetricsRecorder receives search telemetry.
type MetricsRecorder interface {
	// CalculationStarted records a new run and its theoretical candidate count.
	CalculationStarted(total uint64)

	// StepCompleted records one budgeted slice and the engine advances it made.
	StepCompleted(advances int, elapsed time.Duration)

	// CalculationFinished records the final counters of a completed run.
	CalculationFinished(progress domain.Progress, elapsed time.Duration)

	// CalculationCancelled records a run abandoned before completion.
	CalculationCancelled()
}

package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/engine"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/logger"
)

// Ensure calculationRun implements the interface.
var _ driving.CalculationRun = (*calculationRun)(nil)

// clockCheckInterval is how many Advance calls run between deadline checks.
const clockCheckInterval = 32

// calculationRun wraps an engine with wall-clock stepping.
type calculationRun struct {
	engine   *engine.Engine
	metrics  driven.MetricsRecorder
	now      func() time.Time
	started  time.Time
	elapsed  time.Duration
}

func newCalculationRun(params domain.CalculationParams, metrics driven.MetricsRecorder, now func() time.Time) *calculationRun {
	e := engine.New()
	e.Setup(params)

	total := e.Progress().Total
	logger.Debug("search setup: %d shafts, %d change gears, %d candidates", params.ShaftCount, len(params.ChangeGears), total)
	if metrics != nil {
		metrics.CalculationStarted(total)
	}

	return &calculationRun{
		engine:  e,
		metrics: metrics,
		now:     now,
		started: now(),
	}
}

// Step advances the engine until the search completes or budget elapses.
// At least one unit of work is done per call.
func (r *calculationRun) Step(budget time.Duration) bool {
	if r.engine.Done() {
		return true
	}

	start := r.now()
	deadline := start.Add(budget)
	advances := 0
	done := false
	for !done {
		done = r.engine.Advance()
		advances++
		if advances%clockCheckInterval == 0 && !r.now().Before(deadline) {
			break
		}
	}

	spent := r.now().Sub(start)
	r.elapsed += spent
	if r.metrics != nil {
		r.metrics.StepCompleted(advances, spent)
	}
	return done
}

// Progress returns the current counters.
func (r *calculationRun) Progress() domain.Progress {
	return r.engine.Progress()
}

// Params returns the normalised parameters of the run.
func (r *calculationRun) Params() domain.CalculationParams {
	return r.engine.Params()
}

// Done returns true once the search is complete or the run is finished.
func (r *calculationRun) Done() bool {
	return r.engine.Done()
}

// Finish ranks the results and returns the calculation.
func (r *calculationRun) Finish() (*domain.Calculation, error) {
	if r.engine.Finalized() {
		return nil, domain.ErrRunFinished
	}
	complete := r.engine.Done()
	state, depth := r.engine.State(), r.engine.Depth()
	trains := r.engine.Finalize()
	logger.Debug("engine stopped in %s state with %d frames pending after %d steps", state, depth, r.engine.Steps())

	progress := r.engine.Progress()
	if !complete {
		logger.Warn("search finished early: %d of %d candidates processed", progress.Processed(), progress.Total)
	}
	logger.Info("search complete: found %d, skipped %d, discarded %d of %d in %s",
		progress.Found, progress.Skipped, progress.Discarded, progress.Total, r.elapsed)
	if r.metrics != nil {
		r.metrics.CalculationFinished(progress, r.elapsed)
	}

	return &domain.Calculation{
		ID:        uuid.NewString(),
		Params:    r.engine.Params(),
		Progress:  progress,
		Trains:    trains,
		Duration:  r.elapsed,
		CreatedAt: r.now(),
	}, nil
}

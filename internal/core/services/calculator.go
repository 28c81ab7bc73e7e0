package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/logger"
)

// Ensure CalculatorService implements the interface.
var _ driving.CalculatorService = (*CalculatorService)(nil)

// progressInterval is the minimum gap between progress callbacks.
const progressInterval = 100 * time.Millisecond

// CalculatorService validates parameters and drives searches.
type CalculatorService struct {
	settings driving.SettingsService
	history  driving.HistoryService
	metrics  driven.MetricsRecorder
	now      func() time.Time
}

// NewCalculatorService creates a new calculator service.
// settings, history and metrics may each be nil: defaults are used,
// nothing is saved and nothing is recorded respectively.
func NewCalculatorService(
	settings driving.SettingsService,
	history driving.HistoryService,
	metrics driven.MetricsRecorder,
) *CalculatorService {
	return &CalculatorService{
		settings: settings,
		history:  history,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Validate normalises and checks params.
func (s *CalculatorService) Validate(params domain.CalculationParams) (domain.CalculationParams, error) {
	params = NormaliseParams(params)
	if err := ValidateParams(params); err != nil {
		return domain.CalculationParams{}, err
	}
	return params, nil
}

// NewRun validates params and sets up a search.
func (s *CalculatorService) NewRun(params domain.CalculationParams) (driving.CalculationRun, error) {
	params, err := s.Validate(params)
	if err != nil {
		return nil, err
	}
	return newCalculationRun(params, s.metrics, s.now), nil
}

// Calculate runs a search to completion in budgeted slices.
func (s *CalculatorService) Calculate(
	ctx context.Context,
	params domain.CalculationParams,
	onProgress driving.ProgressFunc,
) (*domain.Calculation, error) {
	logger.Section("Calculate")
	defer logger.Timed("calculate")()

	cfg := s.appSettings()
	run, err := s.NewRun(params)
	if err != nil {
		return nil, err
	}

	budget := cfg.Search.StepBudget
	limiter := rate.NewLimiter(rate.Every(progressInterval), 1)
	for !run.Step(budget) {
		if err := ctx.Err(); err != nil {
			if s.metrics != nil {
				s.metrics.CalculationCancelled()
			}
			p := run.Progress()
			logger.Debug("search cancelled after %d of %d candidates", p.Processed(), p.Total)
			return nil, fmt.Errorf("%w: %w", domain.ErrCalculationCancelled, err)
		}
		if onProgress != nil && limiter.Allow() {
			onProgress(run.Progress())
		}
	}
	if onProgress != nil {
		onProgress(run.Progress())
	}

	calc, err := run.Finish()
	if err != nil {
		return nil, err
	}

	if cfg.History.Enabled && s.history != nil {
		if err := s.history.Save(ctx, calc); err != nil {
			logger.Warn("failed to save calculation %s: %v", calc.ID, err)
		}
	}
	return calc, nil
}

func (s *CalculatorService) appSettings() domain.AppSettings {
	if s.settings == nil {
		return domain.DefaultAppSettings()
	}
	cfg, err := s.settings.Get()
	if err != nil {
		logger.Warn("failed to load settings, using defaults: %v", err)
		return domain.DefaultAppSettings()
	}
	return *cfg
}

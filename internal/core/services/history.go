package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
	"github.com/custodia-labs/changegear/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService manages saved calculations.
type HistoryService struct {
	store    driven.CalculationStore
	settings driving.SettingsService
}

// NewHistoryService creates a new history service.
// settings may be nil, in which case the default result limit applies.
func NewHistoryService(store driven.CalculationStore, settings driving.SettingsService) *HistoryService {
	return &HistoryService{
		store:    store,
		settings: settings,
	}
}

// Save stores calc keeping only the leading trains. The caller's copy is untouched.
func (s *HistoryService) Save(ctx context.Context, calc *domain.Calculation) error {
	if calc == nil || calc.ID == "" {
		return fmt.Errorf("save calculation: %w: missing id", domain.ErrInvalidInput)
	}

	saved := *calc
	saved.Truncate(s.resultLimit())
	if err := s.store.Save(ctx, &saved); err != nil {
		return fmt.Errorf("save calculation: %w", err)
	}
	logger.Debug("saved calculation %s with %d trains", saved.ID, len(saved.Trains))
	return nil
}

// Get retrieves a calculation by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Calculation, error) {
	calc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get calculation %s: %w", id, err)
	}
	return calc, nil
}

// List returns the most recent calculations.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Calculation, error) {
	calcs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return calcs, nil
}

// Delete removes a calculation.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete calculation %s: %w", id, err)
	}
	return nil
}

func (s *HistoryService) resultLimit() int {
	if s.settings == nil {
		return domain.DefaultAppSettings().Display.ResultLimit
	}
	cfg, err := s.settings.Get()
	if err != nil {
		return domain.DefaultAppSettings().Display.ResultLimit
	}
	return cfg.Display.ResultLimit
}

package driving

import (
	"context"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// HistoryService manages saved calculations.
type HistoryService interface {
	// Save stores a calculation, keeping only the configured number of trains.
	Save(ctx context.Context, calc *domain.Calculation) error

	// Get retrieves a calculation by ID.
	Get(ctx context.Context, id string) (*domain.Calculation, error)

	// List returns the most recent calculations.
	List(ctx context.Context, limit int) ([]domain.Calculation, error)

	// Delete removes a calculation.
	Delete(ctx context.Context, id string) error
}

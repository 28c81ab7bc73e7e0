package driven

import (
	"context"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// CalculationStore persists finished calculations.
// Backed by SQLite, with an in-memory implementation for tests.
type CalculationStore interface {
	// Save stores or replaces a calculation by ID.
	Save(ctx context.Context, calc *domain.Calculation) error

	// Get retrieves a calculation by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Calculation, error)

	// List returns saved calculations, most recent first.
	// A limit of zero or less returns all of them.
	List(ctx context.Context, limit int) ([]domain.Calculation, error)

	// Delete removes a calculation.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

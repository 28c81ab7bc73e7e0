package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
)

// Ensure CalculationStore implements the interface.
var _ driven.CalculationStore = (*CalculationStore)(nil)

// CalculationStore is an in-memory implementation of driven.CalculationStore.
// Used for tests and when the history database cannot be opened.
type CalculationStore struct {
	mu           sync.RWMutex
	calculations map[string]domain.Calculation
}

// NewCalculationStore creates a new in-memory calculation store.
func NewCalculationStore() *CalculationStore {
	return &CalculationStore{
		calculations: make(map[string]domain.Calculation),
	}
}

// Save stores or replaces a calculation.
func (s *CalculationStore) Save(_ context.Context, calc *domain.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculations[calc.ID] = clone(*calc)
	return nil
}

// Get retrieves a calculation by ID.
func (s *CalculationStore) Get(_ context.Context, id string) (*domain.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calc, ok := s.calculations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := clone(calc)
	return &c, nil
}

// List returns calculations, most recent first.
func (s *CalculationStore) List(_ context.Context, limit int) ([]domain.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Calculation, 0, len(s.calculations))
	for _, calc := range s.calculations {
		result = append(result, clone(calc))
	}
	slices.SortFunc(result, func(a, b domain.Calculation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a calculation.
func (s *CalculationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.calculations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.calculations, id)
	return nil
}

func clone(calc domain.Calculation) domain.Calculation {
	calc.Trains = slices.Clone(calc.Trains)
	calc.Params.ChangeGears = slices.Clone(calc.Params.ChangeGears)
	calc.Params.InputGears = slices.Clone(calc.Params.InputGears)
	return calc
}

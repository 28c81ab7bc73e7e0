package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	mu        sync.Mutex
	started   []uint64
	steps     int
	advances  int
	finished  []domain.Progress
	cancelled int
}

func (m *mockMetrics) CalculationStarted(total uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, total)
}

func (m *mockMetrics) StepCompleted(advances int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps++
	m.advances += advances
}

func (m *mockMetrics) CalculationFinished(progress domain.Progress, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, progress)
}

func (m *mockMetrics) CalculationCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

// mockCalculationStore implements driven.CalculationStore with injectable errors.
type mockCalculationStore struct {
	saved   []domain.Calculation
	saveErr error
	getErr  error
	listErr error
	delErr  error
}

func (m *mockCalculationStore) Save(_ context.Context, calc *domain.Calculation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *calc)
	return nil
}

func (m *mockCalculationStore) Get(_ context.Context, id string) (*domain.Calculation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCalculationStore) List(_ context.Context, _ int) ([]domain.Calculation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.saved, nil
}

func (m *mockCalculationStore) Delete(_ context.Context, _ string) error {
	return m.delErr
}

// mockSettings implements driving.SettingsService returning fixed settings.
type mockSettings struct {
	settings domain.AppSettings
	getErr   error
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettings) Set(_, _ string) error { return nil }

func (m *mockSettings) Reset() error { return nil }

func (m *mockSettings) Keys() []string { return nil }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

var errStore = errors.New("store unavailable")

// testParams is a small shared-pool search with 48 candidates.
func testParams() domain.CalculationParams {
	return domain.CalculationParams{
		ShaftCount:       3,
		ChangeGears:      []int{20, 30, 40, 50},
		SharedInputGears: true,
		TargetMultiplier: 1,
		Module:           1,
		Addendum:         1.2,
	}
}

package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// mockCalculatorService is a mock implementation of driving.CalculatorService.
type mockCalculatorService struct {
	calc   *domain.Calculation
	err    error
	params domain.CalculationParams
}

func (m *mockCalculatorService) Validate(p domain.CalculationParams) (domain.CalculationParams, error) {
	return p, m.err
}

func (m *mockCalculatorService) NewRun(_ domain.CalculationParams) (driving.CalculationRun, error) {
	return nil, m.err
}

func (m *mockCalculatorService) Calculate(
	_ context.Context,
	p domain.CalculationParams,
	_ driving.ProgressFunc,
) (*domain.Calculation, error) {
	m.params = p
	if m.err != nil {
		return nil, m.err
	}
	calc := *m.calc
	calc.Params = p
	return &calc, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	calcs []domain.Calculation
	err   error
}

func (m *mockHistoryService) Save(_ context.Context, calc *domain.Calculation) error {
	m.calcs = append(m.calcs, *calc)
	return m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.Calculation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.calcs {
		if m.calcs[i].ID == id {
			return &m.calcs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.Calculation, error) {
	return m.calcs, m.err
}

func (m *mockHistoryService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Reset() error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testCalculation returns a finished calculation with three ranked trains.
func testCalculation() *domain.Calculation {
	return &domain.Calculation{
		ID: "calc-1",
		Params: domain.CalculationParams{
			ShaftCount:       2,
			ChangeGears:      []int{20, 30, 40},
			SharedInputGears: true,
			TargetMultiplier: 1,
			Module:           1,
		},
		Progress: domain.Progress{Found: 3, Skipped: 3, Total: 6},
		Trains: []domain.GearTrain{
			domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(30, 0), domain.SingleGearShaft(30, 0)}),
			domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(30, 0), domain.SingleGearShaft(40, 0)}),
			domain.NewGearTrain([]domain.Shaft{domain.SingleGearShaft(20, 0), domain.SingleGearShaft(40, 0)}),
		},
		Duration:  15 * time.Millisecond,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

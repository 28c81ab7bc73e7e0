package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/changegear/internal/core/domain"
	"github.com/custodia-labs/changegear/internal/core/ports/driven"
	"github.com/custodia-labs/changegear/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyShaftCount     = "calculator.shaft_count"
	keyChangeGears    = "calculator.change_gears"
	keyInputGears     = "calculator.input_gears"
	keySharedInput    = "calculator.shared_input"
	keyTarget         = "calculator.target"
	keyModule         = "calculator.module"
	keyAddendum       = "calculator.addendum"
	keySpacer         = "calculator.spacer"
	keyInputSpacer    = "calculator.input_spacer"
	keyMinDistance    = "calculator.min_distance"
	keyMaxDistance    = "calculator.max_distance"
	keyResultLimit    = "display.result_limit"
	keyStepBudgetMS   = "search.step_budget_ms"
	keyHistoryEnabled = "history.enabled"
)

// settingKeys lists every recognised key in display order.
var settingKeys = []string{
	keyShaftCount,
	keyChangeGears,
	keyInputGears,
	keySharedInput,
	keyTarget,
	keyModule,
	keyAddendum,
	keySpacer,
	keyInputSpacer,
	keyMinDistance,
	keyMaxDistance,
	keyResultLimit,
	keyStepBudgetMS,
	keyHistoryEnabled,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing keys fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	dp := defaults.Calculator.Params

	settings := &domain.AppSettings{
		Calculator: domain.CalculatorDefaults{
			Params: domain.CalculationParams{
				ShaftCount:       s.getInt(keyShaftCount, dp.ShaftCount),
				ChangeGears:      s.getInts(keyChangeGears, dp.ChangeGears),
				InputGears:       s.getInts(keyInputGears, dp.InputGears),
				SharedInputGears: s.getBool(keySharedInput, dp.SharedInputGears),
				TargetMultiplier: s.getFloat(keyTarget, dp.TargetMultiplier),
				Module:           s.getFloat(keyModule, dp.Module),
				Addendum:         s.getFloat(keyAddendum, dp.Addendum),
				SpacerSize:       s.getInt(keySpacer, dp.SpacerSize),
				InputSpacerSize:  s.getInt(keyInputSpacer, dp.InputSpacerSize),
				MinDistance:      s.getFloat(keyMinDistance, dp.MinDistance),
				MaxDistance:      s.getFloat(keyMaxDistance, dp.MaxDistance),
			},
		},
		Display: domain.DisplaySettings{
			ResultLimit: s.getInt(keyResultLimit, defaults.Display.ResultLimit),
		},
		Search: domain.SearchSettings{
			StepBudget: time.Duration(s.getInt(keyStepBudgetMS, int(defaults.Search.StepBudget/time.Millisecond))) * time.Millisecond,
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	p := settings.Calculator.Params
	values := []struct {
		key   string
		value any
	}{
		{keyShaftCount, p.ShaftCount},
		{keyChangeGears, p.ChangeGears},
		{keyInputGears, nonNil(p.InputGears)},
		{keySharedInput, p.SharedInputGears},
		{keyTarget, p.TargetMultiplier},
		{keyModule, p.Module},
		{keyAddendum, p.Addendum},
		{keySpacer, p.SpacerSize},
		{keyInputSpacer, p.InputSpacerSize},
		{keyMinDistance, p.MinDistance},
		{keyMaxDistance, p.MaxDistance},
		{keyResultLimit, settings.Display.ResultLimit},
		{keyStepBudgetMS, int(settings.Search.StepBudget / time.Millisecond)},
		{keyHistoryEnabled, settings.History.Enabled},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and saves the resulting settings.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	p := &settings.Calculator.Params
	switch key {
	case keyShaftCount:
		err = parseInto(value, strconv.Atoi, &p.ShaftCount)
	case keyChangeGears:
		p.ChangeGears, err = ParseGearList(value)
	case keyInputGears:
		p.InputGears, err = ParseGearList(value)
	case keySharedInput:
		err = parseInto(value, strconv.ParseBool, &p.SharedInputGears)
	case keyTarget:
		err = parseInto(value, parseFloat, &p.TargetMultiplier)
	case keyModule:
		err = parseInto(value, parseFloat, &p.Module)
	case keyAddendum:
		err = parseInto(value, parseFloat, &p.Addendum)
	case keySpacer:
		err = parseInto(value, strconv.Atoi, &p.SpacerSize)
	case keyInputSpacer:
		err = parseInto(value, strconv.Atoi, &p.InputSpacerSize)
	case keyMinDistance:
		err = parseInto(value, parseFloat, &p.MinDistance)
	case keyMaxDistance:
		err = parseInto(value, parseFloat, &p.MaxDistance)
	case keyResultLimit:
		err = parseInto(value, strconv.Atoi, &settings.Display.ResultLimit)
	case keyStepBudgetMS:
		var ms int
		err = parseInto(value, strconv.Atoi, &ms)
		settings.Search.StepBudget = time.Duration(ms) * time.Millisecond
	case keyHistoryEnabled:
		err = parseInto(value, strconv.ParseBool, &settings.History.Enabled)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	return s.Save(settings)
}

// Reset removes every stored key so defaults apply again.
func (s *SettingsService) Reset() error {
	for _, key := range settingKeys {
		if err := s.configStore.Delete(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// Keys returns the recognised settings keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ParseGearList parses a comma or space separated list of tooth counts.
// An empty string yields an empty list.
func ParseGearList(value string) ([]int, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	gears := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid tooth count %q", f)
		}
		gears = append(gears, n)
	}
	return gears, nil
}

// validateSettings rejects settings that could not start a search.
func validateSettings(settings *domain.AppSettings) error {
	p := NormaliseParams(settings.Calculator.Params)
	if err := ValidateParams(p); err != nil {
		return fmt.Errorf("calculator defaults: %w", err)
	}
	if settings.Display.ResultLimit < 1 {
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, keyResultLimit)
	}
	if settings.Search.StepBudget < time.Millisecond {
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, keyStepBudgetMS)
	}
	return nil
}

func parseInto[T any](value string, parse func(string) (T, error), dst *T) error {
	v, err := parse(value)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return fmt.Errorf("cannot parse %q", value)
		}
		return err
	}
	*dst = v
	return nil
}

func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

func nonNil(gears []int) []int {
	if gears == nil {
		return []int{}
	}
	return gears
}

// Helper methods for reading config with defaults.
// Existence is checked so that stored zeros are honoured.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getInts(key string, defaultVal []int) []int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetIntSlice(key)
}

package driving

import "github.com/custodia-labs/changegear/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses value and stores it under a settings key.
	// Unknown keys return domain.ErrUnknownSetting.
	Set(key, value string) error

	// Reset restores every setting to its default.
	Reset() error

	// Keys returns the recognised settings keys in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}

package driving

import "github.com/custodia-labs/slidefit/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetWarningPercent updates where OK turns into WARNING.
	SetWarningPercent(percent float64) error

	// SetDisplay updates the display scaling bounds.
	SetDisplay(display domain.DisplaySettings) error

	// SetCache updates the geometry cache configuration.
	SetCache(cache domain.CacheSettings) error

	// SetGenerationProvider configures the content generator.
	SetGenerationProvider(provider domain.AIProvider, model, apiKey string) error

	// SetCollab configures the collaboration channel.
	SetCollab(collab domain.CollabSettings) error

	// Validate checks if current settings are consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateGenerationConfig validates the generator by pinging the provider.
	ValidateGenerationConfig() error
}

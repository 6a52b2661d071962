package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyFitWarnPercent     = "fit.warning_percent"
	keyDisplayScale       = "display.scale"
	keyDisplayMinFont     = "display.min_font_pt"
	keyDisplayMaxFont     = "display.max_font_pt"
	keyCacheBackend       = "cache.backend"
	keyCacheMaxEntries    = "cache.max_entries"
	keyCacheTTL           = "cache.ttl"
	keyAnalysisBaseURL    = "analysis.base_url"
	keyAnalysisClientID   = "analysis.client_id"
	keyAnalysisSecret     = "analysis.client_secret"
	keyAnalysisTokenURL   = "analysis.token_url"
	keyAnalysisRPS        = "analysis.requests_per_second"
	keyAnalysisBurst      = "analysis.burst"
	keyGenerationProvider = "generation.provider"
	keyGenerationModel    = "generation.model"
	keyGenerationBaseURL  = "generation.base_url"
	keyGenerationAPIKey   = "generation.api_key"
	keyCollabBackend      = "collab.backend"
	keyCollabDir          = "collab.dir"
	keyCollabUser         = "collab.user"
)

// defaultOllamaURL is the OpenAI-compatible endpoint of a local Ollama.
const defaultOllamaURL = "http://localhost:11434/v1"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Fit: domain.FitSettings{
			WarningPercent: s.getFloat(keyFitWarnPercent, defaults.Fit.WarningPercent),
		},
		Display: domain.DisplaySettings{
			Scale:     s.getFloat(keyDisplayScale, defaults.Display.Scale),
			MinFontPt: s.getFloat(keyDisplayMinFont, defaults.Display.MinFontPt),
			MaxFontPt: s.getFloat(keyDisplayMaxFont, defaults.Display.MaxFontPt),
		},
		Cache: domain.CacheSettings{
			Backend:    s.getCacheBackend(defaults.Cache.Backend),
			MaxEntries: s.getInt(keyCacheMaxEntries, defaults.Cache.MaxEntries),
			TTL:        s.getDuration(keyCacheTTL, defaults.Cache.TTL),
		},
		Analysis: domain.AnalysisSettings{
			BaseURL:           s.configStore.GetString(keyAnalysisBaseURL),
			ClientID:          s.configStore.GetString(keyAnalysisClientID),
			ClientSecret:      s.configStore.GetString(keyAnalysisSecret),
			TokenURL:          s.configStore.GetString(keyAnalysisTokenURL),
			RequestsPerSecond: s.getFloat(keyAnalysisRPS, defaults.Analysis.RequestsPerSecond),
			Burst:             s.getInt(keyAnalysisBurst, defaults.Analysis.Burst),
		},
		Generation: domain.GenerationSettings{
			Provider: s.getProvider(keyGenerationProvider, defaults.Generation.Provider),
			Model:    s.getString(keyGenerationModel, defaults.Generation.Model),
			BaseURL:  s.configStore.GetString(keyGenerationBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyGenerationAPIKey),
		},
		Collab: domain.CollabSettings{
			Backend: s.getCollabBackend(defaults.Collab.Backend),
			Dir:     s.configStore.GetString(keyCollabDir),
			User:    s.configStore.GetString(keyCollabUser),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		label string
	}{
		{keyFitWarnPercent, settings.Fit.WarningPercent, "fit warning_percent"},
		{keyDisplayScale, settings.Display.Scale, "display scale"},
		{keyDisplayMinFont, settings.Display.MinFontPt, "display min_font_pt"},
		{keyDisplayMaxFont, settings.Display.MaxFontPt, "display max_font_pt"},
		{keyCacheBackend, settings.Cache.Backend.String(), "cache backend"},
		{keyCacheMaxEntries, settings.Cache.MaxEntries, "cache max_entries"},
		{keyCacheTTL, settings.Cache.TTL.String(), "cache ttl"},
		{keyAnalysisBaseURL, settings.Analysis.BaseURL, "analysis base_url"},
		{keyAnalysisTokenURL, settings.Analysis.TokenURL, "analysis token_url"},
		{keyAnalysisRPS, settings.Analysis.RequestsPerSecond, "analysis requests_per_second"},
		{keyAnalysisBurst, settings.Analysis.Burst, "analysis burst"},
		{keyGenerationProvider, settings.Generation.Provider.String(), "generation provider"},
		{keyGenerationModel, settings.Generation.Model, "generation model"},
		{keyGenerationBaseURL, settings.Generation.BaseURL, "generation base_url"},
		{keyCollabBackend, settings.Collab.Backend.String(), "collab backend"},
		{keyCollabDir, settings.Collab.Dir, "collab dir"},
		{keyCollabUser, settings.Collab.User, "collab user"},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.label, err)
		}
	}

	// Secrets are only written when set so an empty form never clears them.
	secrets := []struct {
		key   string
		value string
		label string
	}{
		{keyAnalysisClientID, settings.Analysis.ClientID, "analysis client_id"},
		{keyAnalysisSecret, settings.Analysis.ClientSecret, "analysis client_secret"},
		{keyGenerationAPIKey, settings.Generation.APIKey, "generation api_key"},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.label, err)
		}
	}

	return nil
}

// SetWarningPercent updates where OK turns into WARNING.
func (s *SettingsService) SetWarningPercent(percent float64) error {
	if percent <= 0 || percent >= domain.ErrorPercent {
		return fmt.Errorf("warning percent must be between 0 and %.0f: %v", domain.ErrorPercent, percent)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Fit.WarningPercent = percent
	return s.Save(settings)
}

// SetDisplay updates the display scaling bounds.
func (s *SettingsService) SetDisplay(display domain.DisplaySettings) error {
	if display.Scale <= 0 {
		return fmt.Errorf("display scale must be positive: %v", display.Scale)
	}
	if display.MinFontPt <= 0 || display.MaxFontPt < display.MinFontPt {
		return fmt.Errorf("invalid font bounds: min %v, max %v", display.MinFontPt, display.MaxFontPt)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Display = display
	return s.Save(settings)
}

// SetCache updates the geometry cache configuration.
func (s *SettingsService) SetCache(cache domain.CacheSettings) error {
	if !cache.Backend.IsValid() {
		return fmt.Errorf("invalid cache backend: %s", cache.Backend)
	}
	if cache.MaxEntries < 0 {
		return fmt.Errorf("cache max entries must not be negative: %d", cache.MaxEntries)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Cache = cache
	return s.Save(settings)
}

// SetGenerationProvider configures the content generator.
func (s *SettingsService) SetGenerationProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid generation provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Generation.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Generation.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.Generation.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Generation.BaseURL == "" {
			settings.Generation.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Generation.BaseURL = ""
	}

	settings.Generation.APIKey = apiKey

	return s.Save(settings)
}

// SetCollab configures the collaboration channel.
func (s *SettingsService) SetCollab(collab domain.CollabSettings) error {
	if !collab.Backend.IsValid() {
		return fmt.Errorf("invalid collaboration backend: %s", collab.Backend)
	}
	if collab.Backend == domain.CollabDir && collab.Dir == "" {
		return fmt.Errorf("collaboration backend %q requires a directory", collab.Backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Collab = collab
	return s.Save(settings)
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if w := settings.Fit.WarningPercent; w <= 0 || w >= domain.ErrorPercent {
		return fmt.Errorf("fit warning percent out of range: %v", w)
	}
	if settings.Display.MaxFontPt < settings.Display.MinFontPt {
		return fmt.Errorf(
			"display max font %vpt is below min font %vpt",
			settings.Display.MaxFontPt, settings.Display.MinFontPt,
		)
	}
	if settings.Collab.Backend == domain.CollabDir && settings.Collab.Dir == "" {
		return fmt.Errorf("collaboration backend %q requires collab.dir", settings.Collab.Backend)
	}
	if settings.Generation.Provider != "" && !settings.Generation.IsConfigured() {
		return fmt.Errorf(
			"generation provider %q is not fully configured",
			settings.Generation.Provider.Description(),
		)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateGenerationConfig validates the current generator configuration by pinging the provider.
func (s *SettingsService) ValidateGenerationConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateGeneration(&settings.Generation)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	backend := domain.CacheBackend(s.configStore.GetString(keyCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getCollabBackend(defaultVal domain.CollabBackend) domain.CollabBackend {
	backend := domain.CollabBackend(s.configStore.GetString(keyCollabBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

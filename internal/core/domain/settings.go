package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies the service behind the content generator.
type AIProvider string

// Available AI providers. Ollama and OpenAI share the chat completions protocol.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// CacheBackend selects the geometry cache implementation.
type CacheBackend string

// Available cache backends.
const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheNone, CacheMemory, CacheSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CacheBackend) Description() string {
	switch b {
	case CacheNone:
		return "Disabled"
	case CacheMemory:
		return "In-memory LRU"
	case CacheSQLite:
		return "SQLite (persistent)"
	default:
		return unknownDescription
	}
}

// CollabBackend selects the collaboration channel implementation.
type CollabBackend string

// Available collaboration backends.
const (
	CollabNone   CollabBackend = "none"
	CollabMemory CollabBackend = "memory"
	CollabDir    CollabBackend = "dir"
)

// IsValid returns true if the backend is recognised.
func (b CollabBackend) IsValid() bool {
	switch b {
	case CollabNone, CollabMemory, CollabDir:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CollabBackend) String() string {
	return string(b)
}

// FitSettings configures fit classification.
type FitSettings struct {
	// WarningPercent is where OK turns into WARNING. ERROR always starts at 100%.
	WarningPercent float64
}

// DisplaySettings configures on-screen font scaling.
type DisplaySettings struct {
	// Scale is the constant ratio applied to every nominal font size for the preview.
	Scale float64

	// MinFontPt is the legibility floor.
	MinFontPt float64

	// MaxFontPt caps the displayed size; the nominal display size is never exceeded.
	MaxFontPt float64
}

// CacheSettings configures the geometry cache.
type CacheSettings struct {
	Backend    CacheBackend
	MaxEntries int
	TTL        time.Duration
}

// AnalysisSettings configures the analysis collaborator client.
type AnalysisSettings struct {
	// BaseURL is the analysis service endpoint. Empty disables the HTTP client.
	BaseURL string

	// ClientID, ClientSecret and TokenURL enable OAuth2 client-credentials auth.
	ClientID     string
	ClientSecret string
	TokenURL     string

	// RequestsPerSecond and Burst throttle outgoing requests.
	RequestsPerSecond float64
	Burst             int
}

// IsConfigured returns true if the analysis service endpoint is set.
func (a AnalysisSettings) IsConfigured() bool {
	return a.BaseURL != ""
}

// UsesOAuth returns true if client credentials are configured.
func (a AnalysisSettings) UsesOAuth() bool {
	return a.ClientID != "" && a.ClientSecret != "" && a.TokenURL != ""
}

// GenerationSettings holds content generator configuration.
type GenerationSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for the cloud providers).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (g GenerationSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// CollabSettings configures the collaboration channel.
type CollabSettings struct {
	Backend CollabBackend

	// Dir is the shared drop directory for the dir backend.
	Dir string

	// User is the identity attached to outgoing mutations.
	User string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Fit        FitSettings
	Display    DisplaySettings
	Cache      CacheSettings
	Analysis   AnalysisSettings
	Generation GenerationSettings
	Collab     CollabSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Collaborators (analysis, generation) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Fit: FitSettings{
			WarningPercent: DefaultWarningPercent,
		},
		Display: DisplaySettings{
			Scale:     0.75,
			MinFontPt: 8,
			MaxFontPt: 72,
		},
		Cache: CacheSettings{
			Backend:    CacheMemory,
			MaxEntries: 256,
			TTL:        7 * 24 * time.Hour,
		},
		Analysis: AnalysisSettings{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Generation: GenerationSettings{},
		Collab: CollabSettings{
			Backend: CollabNone,
		},
	}
}

// AllLLMProviders returns providers that support content generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown is invalid", provider: AIProvider("gemini"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderAnthropic.IsLocal())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestGenerationSettings_IsConfigured(t *testing.T) {
	assert.False(t, GenerationSettings{}.IsConfigured())
	assert.True(t, GenerationSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, GenerationSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, GenerationSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}.IsConfigured())
}

func TestAnalysisSettings(t *testing.T) {
	assert.False(t, AnalysisSettings{}.IsConfigured())
	s := AnalysisSettings{BaseURL: "https://analysis.example.com", ClientID: "id", ClientSecret: "secret"}
	assert.True(t, s.IsConfigured())
	assert.False(t, s.UsesOAuth())
	s.TokenURL = "https://auth.example.com/token"
	assert.True(t, s.UsesOAuth())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultWarningPercent, s.Fit.WarningPercent)
	assert.Greater(t, s.Display.Scale, 0.0)
	assert.Less(t, s.Display.MinFontPt, s.Display.MaxFontPt)
	assert.Equal(t, CacheMemory, s.Cache.Backend)
	assert.Equal(t, CollabNone, s.Collab.Backend)
	assert.False(t, s.Generation.IsConfigured())
	assert.False(t, s.Analysis.IsConfigured())
}

func TestBackends_IsValid(t *testing.T) {
	assert.True(t, CacheSQLite.IsValid())
	assert.False(t, CacheBackend("redis").IsValid())
	assert.True(t, CollabDir.IsValid())
	assert.False(t, CollabBackend("ws").IsValid())
}

func TestClassification_Worse(t *testing.T) {
	assert.Equal(t, FitWarning, FitOK.Worse(FitWarning))
	assert.Equal(t, FitError, FitError.Worse(FitWarning))
	assert.Equal(t, FitOK, FitOK.Worse(FitOK))
}

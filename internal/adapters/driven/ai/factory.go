// Package ai provides factory functions for creating the AI collaborator
// adapters: the content generator and the vision-analysis provider.
package ai

import (
	"context"
	"fmt"
	"time"

	analysisfile "github.com/custodia-labs/slidefit/internal/adapters/driven/analysis/file"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/analysis/remote"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/generation/anthropic"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/generation/openai"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// DefaultOllamaBaseURL is Ollama's OpenAI-compatible endpoint.
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// promptAwareGenerator is a generator whose prompts can be customised.
type promptAwareGenerator interface {
	driven.ContentGenerator
	driven.PromptStoreAware
}

// CreateGenerator creates the content generator for the configured provider.
// Returns nil if generation is not configured. prompts may be nil.
func CreateGenerator(settings *domain.GenerationSettings, prompts driven.PromptStore) (driven.ContentGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[settings.Provider]
	}

	var gen promptAwareGenerator
	switch settings.Provider {
	case domain.AIProviderOllama:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaBaseURL
		}
		gen = openai.NewGenerator(openai.Config{BaseURL: baseURL, Model: model})

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai: API key is required")
		}
		gen = openai.NewGenerator(openai.Config{APIKey: settings.APIKey, BaseURL: settings.BaseURL, Model: model})

	case domain.AIProviderAnthropic:
		claude, err := anthropic.NewGenerator(anthropic.Config{
			APIKey: settings.APIKey, BaseURL: settings.BaseURL, Model: model,
		})
		if err != nil {
			return nil, err
		}
		gen = claude

	default:
		return nil, fmt.Errorf("%w: generation provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	if prompts != nil {
		gen.SetPromptStore(prompts)
	}
	return gen, nil
}

// CreateAndValidateGenerator creates a generator and validates connectivity.
// Returns the generator if successful, or an error with guidance.
func CreateAndValidateGenerator(settings *domain.GenerationSettings, prompts driven.PromptStore) (driven.ContentGenerator, error) {
	gen, err := CreateGenerator(settings, prompts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'slidefit settings generation' to fix",
			domain.ErrGeneratorUnavailable, err)
	}
	if gen == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := gen.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrGeneratorUnavailable, err)
	}
	return gen, nil
}

// ValidateGenerationConfig validates a generation configuration by creating a generator and pinging it.
// This is intended for use by the settings commands to validate credentials on configuration.
func ValidateGenerationConfig(settings *domain.GenerationSettings) error {
	gen, err := CreateGenerator(settings, nil)
	if err != nil {
		return err
	}
	if gen == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return gen.Ping(ctx)
}

// CreateAnalysisProvider creates the analysis provider. The HTTP client is used
// when a base URL is configured; otherwise results are read from resultsDir.
// Returns nil when neither is available.
func CreateAnalysisProvider(ctx context.Context, settings domain.AnalysisSettings, resultsDir string) (driven.AnalysisProvider, error) {
	if settings.IsConfigured() {
		cfg := remote.Config{
			BaseURL: settings.BaseURL,
			RateLimit: remote.RateLimitConfig{
				RequestsPerSecond: settings.RequestsPerSecond,
				BurstSize:         settings.Burst,
			},
		}
		if settings.UsesOAuth() {
			cfg.ClientID = settings.ClientID
			cfg.ClientSecret = settings.ClientSecret
			cfg.TokenURL = settings.TokenURL
		}
		p, err := remote.NewProvider(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisUnavailable, err)
		}
		return p, nil
	}
	if resultsDir != "" {
		return analysisfile.NewProvider(resultsDir), nil
	}
	return nil, nil
}

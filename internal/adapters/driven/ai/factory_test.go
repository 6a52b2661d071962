package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysisfile "github.com/custodia-labs/slidefit/internal/adapters/driven/analysis/file"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/analysis/remote"
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

func TestCreateGenerator(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.GenerationSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.GenerationSettings{}, wantNil: true},
		{
			name:      "ollama uses default model",
			settings:  &domain.GenerationSettings{Provider: domain.AIProviderOllama},
			wantModel: "llama3.2",
		},
		{
			name:      "openai with key",
			settings:  &domain.GenerationSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:      "anthropic uses default model",
			settings:  &domain.GenerationSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantModel: "claude-3-5-haiku-latest",
		},
		{
			name:     "anthropic without key is not configured",
			settings: &domain.GenerationSettings{Provider: domain.AIProviderAnthropic},
			wantNil:  true,
		},
		{
			name:     "openai without key is not configured",
			settings: &domain.GenerationSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := CreateGenerator(tt.settings, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, gen)
				return
			}
			require.NotNil(t, gen)
			assert.Equal(t, tt.wantModel, gen.ModelName())
		})
	}
}

func TestCreateAndValidateGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := CreateAndValidateGenerator(&domain.GenerationSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)

	gen, err := CreateAndValidateGenerator(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, gen)
}

func TestCreateAnalysisProvider(t *testing.T) {
	ctx := context.Background()

	p, err := CreateAnalysisProvider(ctx, domain.AnalysisSettings{BaseURL: "https://analysis.example.com"}, "")
	require.NoError(t, err)
	assert.IsType(t, &remote.Provider{}, p)

	p, err = CreateAnalysisProvider(ctx, domain.AnalysisSettings{}, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &analysisfile.Provider{}, p)

	p, err = CreateAnalysisProvider(ctx, domain.AnalysisSettings{}, "")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = CreateAnalysisProvider(ctx, domain.AnalysisSettings{BaseURL: "::bad"}, "")
	assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
}

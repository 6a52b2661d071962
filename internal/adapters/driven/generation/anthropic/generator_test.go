package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

func sampleRequest() driven.GenerationRequest {
	return driven.GenerationRequest{
		Prompt: "launch announcement",
		Regions: []driven.GenerationRegion{
			{Kind: domain.RegionTitle, Layout: domain.LayoutScalar, BudgetChars: 40},
			{Kind: domain.RegionBullets, Layout: domain.LayoutList, BudgetChars: 120},
		},
	}
}

// messagesServer answers /v1/messages with reply split over two text blocks.
func messagesServer(t *testing.T, reply string, inspect func(*http.Request, messagesRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
			return
		}
		switch r.URL.Path {
		case "/v1/messages":
			var req messagesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if inspect != nil {
				inspect(r, req)
			}
			half := len(reply) / 2
			resp := map[string]any{
				"content": []map[string]string{
					{"type": "text", "text": reply[:half]},
					{"type": "tool_use", "text": "ignored"},
					{"type": "text", "text": reply[half:]},
				},
				"stop_reason": "end_turn",
			}
			_ = json.NewEncoder(w).Encode(resp)
		case "/v1/models":
			_, _ = w.Write([]byte(`{"data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator(Config{})
	assert.ErrorContains(t, err, "API key is required")

	g, err := NewGenerator(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, g.ModelName())
	assert.Equal(t, DefaultBaseURL, g.baseURL)
	assert.Equal(t, DefaultTimeout, g.client.Timeout)
}

func TestGenerator_Generate(t *testing.T) {
	var (
		seen    messagesRequest
		version string
	)
	srv := messagesServer(t, `{"TITLE": "Launch day", "BULLETS": ["Fast", "Cheap"]}`,
		func(r *http.Request, req messagesRequest) {
			seen = req
			version = r.Header.Get("anthropic-version")
		})
	defer srv.Close()

	g, err := NewGenerator(Config{APIKey: "key", BaseURL: srv.URL + "/", Model: "claude-test"})
	require.NoError(t, err)
	patch, err := g.Generate(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.TextContent("Launch day"), patch["TITLE"])
	assert.Equal(t, domain.ListContent("Fast", "Cheap"), patch["BULLETS"])

	assert.Equal(t, anthropicVersion, version)
	assert.Equal(t, "claude-test", seen.Model)
	assert.NotEmpty(t, seen.System)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content, "launch announcement")
	assert.Positive(t, seen.MaxTokens)
}

func TestGenerator_Generate_Errors(t *testing.T) {
	t.Run("bad key", func(t *testing.T) {
		srv := messagesServer(t, "", nil)
		defer srv.Close()
		g, err := NewGenerator(Config{APIKey: "wrong", BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = g.Generate(context.Background(), sampleRequest())
		assert.ErrorContains(t, err, "invalid x-api-key")
	})

	t.Run("reply without json", func(t *testing.T) {
		srv := messagesServer(t, "I cannot do that.", nil)
		defer srv.Close()
		g, err := NewGenerator(Config{APIKey: "key", BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = g.Generate(context.Background(), sampleRequest())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()
		g, err := NewGenerator(Config{APIKey: "key", BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = g.Generate(context.Background(), sampleRequest())
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()
		g, err := NewGenerator(Config{APIKey: "key", BaseURL: srv.URL})
		require.NoError(t, err)
		_, err = g.Generate(context.Background(), sampleRequest())
		assert.ErrorContains(t, err, "no response content")
	})
}

func TestGenerator_Ping(t *testing.T) {
	srv := messagesServer(t, "", nil)
	defer srv.Close()

	g, err := NewGenerator(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, g.Ping(context.Background()))

	g, err = NewGenerator(Config{APIKey: "wrong", BaseURL: srv.URL})
	require.NoError(t, err)
	err = g.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

// Package remote provides an analysis provider that calls the vision-analysis
// service over HTTP.
//
// Requests are throttled with a token bucket and, when client credentials
// are configured, authenticated with the OAuth2 client-credentials grant.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.AnalysisProvider = (*Provider)(nil)

const (
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4096
)

// Config holds the analysis service connection settings.
type Config struct {
	BaseURL string

	// ClientID, ClientSecret and TokenURL enable OAuth2 client credentials.
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string

	RateLimit RateLimitConfig

	// HTTPClient is the base transport. Defaults to a client with a 60s timeout.
	HTTPClient *http.Client
}

// Provider is the HTTP analysis client.
type Provider struct {
	baseURL string
	client  *http.Client
	limiter *RateLimiter
}

// NewProvider creates a provider for the configured service.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: analysis base url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		// The token source fetches tokens with the base client.
		client = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, client))
		logger.Debug("analysis client uses client credentials from %s", cfg.TokenURL)
	}

	return &Provider{
		baseURL: base.String(),
		client:  client,
		limiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Name identifies the provider in logs.
func (p *Provider) Name() string {
	return "remote"
}

// Analyze fetches the analysis of one slide.
func (p *Provider) Analyze(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
	if ref.FileHash == "" || ref.Index < 0 {
		return nil, fmt.Errorf("%w: slide ref %q", domain.ErrInvalidInput, ref.Key())
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	endpoint := p.baseURL + "/v1/presentations/" + url.PathEscape(ref.FileHash) +
		"/slides/" + strconv.Itoa(ref.Index) + "/analysis"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	stop := logger.Timed("analysis " + ref.Key())
	resp, err := p.client.Do(req)
	stop()
	if err != nil {
		return nil, fmt.Errorf("calling analysis service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		p.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		return nil, domain.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("analysis %s: %w", ref.Key(), domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding analysis: %v", domain.ErrInvalidInput, err)
	}
	return &result, nil
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}


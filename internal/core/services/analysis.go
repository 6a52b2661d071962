package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService resolves slide analysis through an optional geometry cache.
// A nil or cold cache is never an error; cache failures fall through to the provider.
type AnalysisService struct {
	provider driven.AnalysisProvider
	cache    driven.GeometryCache
	now      func() time.Time
}

// NewAnalysisService creates an analysis service. Either argument may be nil.
func NewAnalysisService(provider driven.AnalysisProvider, cache driven.GeometryCache) *AnalysisService {
	return &AnalysisService{
		provider: provider,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the analysis for a slide, asking the provider on a cache miss.
func (s *AnalysisService) Load(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
	key := ref.Key()
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("geometry cache get %s: %v", key, err)
		case ok:
			logger.Debug("geometry cache hit %s", key)
			return cached, nil
		default:
			logger.Debug("geometry cache miss %s", key)
		}
	}

	if s.provider == nil {
		return nil, domain.ErrAnalysisUnavailable
	}
	result, err := s.provider.Analyze(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("analyze %s with %s: %w", key, s.provider.Name(), err)
	}
	if result == nil {
		return nil, fmt.Errorf("analyze %s with %s: %w", key, s.provider.Name(), domain.ErrNotFound)
	}
	result.Ref = ref
	if result.SlideID == "" {
		result.SlideID = key
	}
	if result.AnalyzedAt.IsZero() {
		result.AnalyzedAt = s.now()
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, result); err != nil {
			logger.Warn("geometry cache put %s: %v", key, err)
		}
	}
	return result, nil
}

// Invalidate drops a cached result.
func (s *AnalysisService) Invalidate(ctx context.Context, ref domain.SlideRef) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, ref.Key()); err != nil {
		return fmt.Errorf("invalidate %s: %w", ref.Key(), err)
	}
	return nil
}

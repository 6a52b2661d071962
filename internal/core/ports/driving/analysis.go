package driving

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// AnalysisService resolves slide analysis results through the geometry cache.
type AnalysisService interface {
	// Load returns the analysis for a slide, asking the provider on a cache miss.
	Load(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error)

	// Invalidate drops a cached result.
	Invalidate(ctx context.Context, ref domain.SlideRef) error
}

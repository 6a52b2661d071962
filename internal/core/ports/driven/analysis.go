package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// AnalysisProvider is the vision-analysis collaborator.
// It returns region geometry already resolved; the engine never rasterises.
type AnalysisProvider interface {
	// Analyze returns the analysis result for one slide.
	Analyze(ctx context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error)

	// Name identifies the provider in logs.
	Name() string
}

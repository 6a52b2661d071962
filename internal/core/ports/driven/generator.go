package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// GenerationRegion describes one region to the content generator.
type GenerationRegion struct {
	Kind        domain.RegionKind
	Layout      domain.ContentLayout
	BudgetChars int
	Current     domain.Content
}

// GenerationRequest asks the generator for new slide content.
type GenerationRequest struct {
	// Prompt is the user's instruction.
	Prompt string

	// Regions are the text-bearing regions of the slide.
	Regions []GenerationRegion
}

// ContentGenerator is the LLM content-generation collaborator.
// Its patch is applied verbatim; the engine only validates and displays it.
type ContentGenerator interface {
	// Generate returns a patch keyed by region kind.
	Generate(ctx context.Context, req GenerationRequest) (domain.ContentPatch, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error
}

package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// GeometryCache caches analysis results keyed by presentation hash and slide.
// The cache is optional: callers must work with a nil cache and with a cold one.
// Implementations own their eviction policy.
type GeometryCache interface {
	// Get returns a cached result. The boolean is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error)

	// Put stores a result, evicting older entries as the policy requires.
	Put(ctx context.Context, key string, result *domain.AnalysisResult) error

	// Delete removes one entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Purge removes every entry.
	Purge(ctx context.Context) error

	// Len returns the number of live entries.
	Len(ctx context.Context) (int, error)
}

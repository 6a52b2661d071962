package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// SlideStore persists the mutable state of a slide: content bindings and assets.
// Region geometry is never stored here; it belongs to the analysis result.
type SlideStore interface {
	// SaveContent stores or replaces the content bound to one region.
	SaveContent(ctx context.Context, slideID, regionID string, content domain.Content) error

	// LoadBinding returns every content value bound on a slide.
	LoadBinding(ctx context.Context, slideID string) (domain.ContentBinding, error)

	// SaveAsset stores or updates one asset.
	SaveAsset(ctx context.Context, asset domain.Asset) error

	// DeleteAsset removes an asset. Returns domain.ErrNotFound if absent.
	DeleteAsset(ctx context.Context, slideID, assetID string) error

	// ListAssets returns a slide's assets in insertion order.
	ListAssets(ctx context.Context, slideID string) ([]domain.Asset, error)
}

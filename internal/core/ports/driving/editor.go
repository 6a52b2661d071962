package driving

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// EditorService is one slide editing session.
// Every method is a synchronous reaction to a discrete event.
type EditorService interface {
	// Ingest replaces the slide with a new analysis result and restores
	// any persisted content and assets.
	Ingest(ctx context.Context, result *domain.AnalysisResult) error

	// SlideID returns the current slide ID, or empty before ingestion.
	SlideID() string

	// Regions returns copies of the ingested regions.
	Regions() []domain.Region

	// Content returns the content of a region, defaulted for unset regions.
	Content(regionID string) (domain.Content, error)

	// SetContent binds a value to a region and returns its fit.
	// Overflow never rejects the edit.
	SetContent(ctx context.Context, regionID string, content domain.Content) (domain.FitResult, error)

	// ApplyPatch applies a generation patch verbatim and returns the fit of every touched region.
	ApplyPatch(ctx context.Context, patch domain.ContentPatch) (map[string]domain.FitResult, error)

	// Generate asks the content generator for a patch and applies it.
	Generate(ctx context.Context, prompt string) (map[string]domain.FitResult, error)

	// Resize re-renders the frame for a new viewport.
	Resize(viewport domain.Viewport) *domain.Frame

	// Frame returns the current frame.
	Frame() *domain.Frame

	// ToggleDebug flips the debug grid and returns the new state.
	ToggleDebug() bool

	// SetMediaVisible shows or hides extracted media overlays.
	SetMediaVisible(visible bool)

	// HitTest resolves a pointer position in RelativePercent space.
	HitTest(x, y float64) domain.HitTarget

	// InsertAsset adds a user asset at a default position.
	InsertAsset(ctx context.Context, kind domain.AssetKind, payload domain.AssetPayload) (domain.Asset, error)

	// UpdateAssetPayload replaces an asset's payload.
	UpdateAssetPayload(ctx context.Context, assetID string, payload domain.AssetPayload) (domain.Asset, error)

	// SelectAsset selects one asset and deselects the others. Empty ID clears the selection.
	SelectAsset(assetID string) error

	// BeginDrag starts dragging an asset.
	BeginDrag(assetID string) error

	// DragTo moves the dragged asset on screen without persisting.
	DragTo(pos domain.Position) error

	// EndDrag commits the dragged asset's final position.
	EndDrag(ctx context.Context) (domain.Asset, error)

	// MoveAsset commits a position directly.
	MoveAsset(ctx context.Context, assetID string, pos domain.Position) (domain.Asset, error)

	// RemoveAsset deletes an asset.
	RemoveAsset(ctx context.Context, assetID string) error

	// Assets returns the slide's assets.
	Assets() []domain.Asset

	// ApplyRemote applies a mutation received from the collaboration channel.
	ApplyRemote(ctx context.Context, m domain.Mutation) error

	// Listen applies remote mutations until ctx is cancelled or the channel closes.
	Listen(ctx context.Context) error

	// Export returns the stored content and assets for the export collaborator.
	Export(ctx context.Context) (domain.ExportBundle, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// Exporter hands stored slide state to the export collaborator.
type Exporter interface {
	// Export writes the bundle. Bundles always carry stored formatting.
	Export(ctx context.Context, bundle domain.ExportBundle) error
}

package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// FrameRenderer draws a composed frame, used for debug previews.
type FrameRenderer interface {
	// Render writes an encoded image of the frame to w.
	Render(ctx context.Context, frame *domain.Frame, w io.Writer) error
}

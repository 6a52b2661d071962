package mcp

import (
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Editor is the slide editing session.
	Editor driving.EditorService

	// Analysis resolves slide references for load_slide.
	Analysis driving.AnalysisService

	// Validator classifies ad-hoc content for validate_fit.
	Validator driving.FitValidator

	// Renderer draws frames for render_slide.
	Renderer driven.FrameRenderer
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Editor == nil {
		return ErrMissingEditorService
	}
	if p.Validator == nil {
		return ErrMissingValidator
	}
	// Analysis and Renderer are optional; their tools report an error instead.
	return nil
}

// Package tui provides an interactive terminal user interface for slidefit.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Editor is the slide editing session.
	Editor driving.EditorService

	// Analysis loads slides through the geometry cache.
	Analysis driving.AnalysisService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Validator backs the live character counter.
	Validator driving.FitValidator
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	editor driving.EditorService,
	analysis driving.AnalysisService,
	settings driving.SettingsService,
	validator driving.FitValidator,
) *Ports {
	return &Ports{
		Editor:    editor,
		Analysis:  analysis,
		Settings:  settings,
		Validator: validator,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Editor == nil {
		return ErrMissingEditorService
	}
	return nil
}

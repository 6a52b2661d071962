package tui

import "errors"

// ErrMissingEditorService is returned when the editor service is not provided.
var ErrMissingEditorService = errors.New("tui: editor service is required")

// ErrMissingAnalysisService is returned when a slide is requested without an analysis service.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required to load a slide")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

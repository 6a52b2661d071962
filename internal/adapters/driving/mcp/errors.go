// Package mcp provides an MCP (Model Context Protocol) server adapter for slidefit.
// It lets AI assistants check content against region budgets, edit a slide
// and preview the result.
package mcp

import "errors"

// ErrMissingEditorService is returned when the editor service is not provided.
var ErrMissingEditorService = errors.New("mcp: editor service is required")

// ErrMissingValidator is returned when the fit validator is not provided.
var ErrMissingValidator = errors.New("mcp: fit validator is required")

// ErrMissingAnalysisService is returned by load_slide without an analysis service.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is not configured")

// ErrMissingRenderer is returned by render_slide without a frame renderer.
var ErrMissingRenderer = errors.New("mcp: frame renderer is not configured")

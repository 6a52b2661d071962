package editor

import "errors"

// Error definitions for the editor view.
var (
	// ErrNoEditorService indicates that no editor service was provided.
	ErrNoEditorService = errors.New("editor service is required")
)

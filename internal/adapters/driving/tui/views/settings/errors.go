package settings

import "errors"

// Error definitions for the settings view.
var (
	// ErrNoSettingsService indicates that no settings service was provided.
	ErrNoSettingsService = errors.New("settings service not available")
)

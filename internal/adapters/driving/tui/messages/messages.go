// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewEditor is the region editor.
	ViewEditor
	// ViewAssets is the asset placement view.
	ViewAssets
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewEditor:
		return "editor"
	case ViewAssets:
		return "assets"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SlideLoaded carries an analysis result into the editor.
type SlideLoaded struct {
	Result *domain.AnalysisResult
	Err    error
}

// FrameUpdated carries a freshly composed frame, for example after a remote edit.
type FrameUpdated struct {
	Frame *domain.Frame
}

// ContentApplied signals an inline edit was applied.
type ContentApplied struct {
	RegionID string
	Fit      domain.FitResult
	Err      error
}

// GenerationCompleted carries the fit of every region touched by a generation patch.
type GenerationCompleted struct {
	Fits map[string]domain.FitResult
	Err  error
}

// AssetsChanged signals the asset list changed.
type AssetsChanged struct {
	Assets []domain.Asset
	Err    error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

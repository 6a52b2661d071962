// Package cli provides the slidefit command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	editorService   driving.EditorService
	analysisService driving.AnalysisService
	fitValidator    driving.FitValidator
	settingsService driving.SettingsService
	frameRenderer   driven.FrameRenderer
	newExporter     func(dir string) driven.Exporter
)

// Services bundles everything the commands drive.
type Services struct {
	Editor    driving.EditorService
	Analysis  driving.AnalysisService
	Validator driving.FitValidator
	Settings  driving.SettingsService
	Renderer  driven.FrameRenderer

	// Exporter builds an exporter writing to dir, or to stdout when dir is empty.
	Exporter func(dir string) driven.Exporter
}

var rootCmd = &cobra.Command{
	Use:   "slidefit",
	Short: "Layout-aware content overlay and fit validation for slides",
	Long: `slidefit overlays editable regions on an analysed slide preview and
keeps every edit inside the space the original design left for it.

Content is validated against each region's character budget as you type,
user assets can be placed on top of the slide, and the result is exported
with the slide's stored formatting.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the core services used by the commands.
func SetServices(s Services) {
	editorService = s.Editor
	analysisService = s.Analysis
	fitValidator = s.Validator
	settingsService = s.Settings
	frameRenderer = s.Renderer
	newExporter = s.Exporter
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

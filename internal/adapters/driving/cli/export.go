package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export [slide]",
	Short: "Export a slide's content and assets",
	Long: `Writes the slide's stored content, region geometry and assets as JSON
for the document writer.

Formatting is always the stored formatting: the reduced font sizes shown
for over-budget regions in previews are never exported.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if newExporter == nil {
		return errors.New("exporter not configured")
	}

	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	bundle, err := editorService.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := newExporter(exportDir).Export(ctx, bundle); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if exportDir != "" {
		cmd.Printf("Exported %s to %s\n", bundle.SlideID, exportDir)
	}
	return nil
}

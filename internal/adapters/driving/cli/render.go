package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// Default viewport for renders and inspections.
const (
	defaultRenderWidth  = 1280
	defaultRenderHeight = 720
)

var (
	renderWidth  int
	renderHeight int
	renderOut    string
	renderDebug  bool
	renderMedia  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [slide]",
	Short: "Render a slide overlay to PNG",
	Long: `Composes the overlay stack for a slide and writes it as a PNG.

Regions are tinted by their fit classification, user assets are drawn on top
and --debug adds the labelled region grid. The preview is letterboxed to keep
the slide's aspect ratio inside the requested viewport.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderWidth, "width", defaultRenderWidth, "viewport width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", defaultRenderHeight, "viewport height in pixels")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().BoolVar(&renderDebug, "debug", false, "draw the debug grid")
	renderCmd.Flags().BoolVar(&renderMedia, "media", true, "draw extracted media outlines")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if frameRenderer == nil {
		return errors.New("frame renderer not configured")
	}
	viewport := domain.Viewport{Width: renderWidth, Height: renderHeight}
	if !viewport.IsValid() {
		return fmt.Errorf("%w: viewport %dx%d", domain.ErrInvalidInput, renderWidth, renderHeight)
	}

	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	editorService.SetMediaVisible(renderMedia)
	if editorService.Frame().DebugVisible != renderDebug {
		editorService.ToggleDebug()
	}
	frame := editorService.Resize(viewport)

	var w io.Writer = cmd.OutOrStdout()
	if renderOut != "" {
		f, err := os.Create(renderOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", renderOut, err)
		}
		defer f.Close()
		w = f
	} else if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("refusing to write PNG data to a terminal, use --out")
	}

	if err := frameRenderer.Render(ctx, frame, w); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if renderOut != "" {
		cmd.Printf("Wrote %s (%dx%d)\n", renderOut, renderWidth, renderHeight)
	}
	return nil
}

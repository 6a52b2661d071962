package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [slide]",
	Short: "List a slide's regions and their fit",
	Long: `Loads a slide through the geometry cache and lists every editable region
with its character budget, stored content and fit classification.

Slides are addressed as <file-hash>#<index>. The index defaults to 0.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output the rendered regions as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// parseSlideRef parses <file-hash>[#index].
func parseSlideRef(arg string) (domain.SlideRef, error) {
	hash, index, found := strings.Cut(strings.TrimSpace(arg), "#")
	if hash == "" {
		return domain.SlideRef{}, fmt.Errorf("%w: empty slide reference", domain.ErrInvalidInput)
	}
	ref := domain.SlideRef{FileHash: hash}
	if !found {
		return ref, nil
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return domain.SlideRef{}, fmt.Errorf("%w: slide index %q", domain.ErrInvalidInput, index)
	}
	ref.Index = n
	return ref, nil
}

// loadSlide resolves a slide and ingests it into the editor session.
func loadSlide(ctx context.Context, arg string) (*domain.AnalysisResult, error) {
	if editorService == nil {
		return nil, errors.New("editor service not configured")
	}
	if analysisService == nil {
		return nil, errors.New("analysis service not configured")
	}
	ref, err := parseSlideRef(arg)
	if err != nil {
		return nil, err
	}
	result, err := analysisService.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("loading slide %s: %w", ref.Key(), err)
	}
	if err := editorService.Ingest(ctx, result); err != nil {
		return nil, fmt.Errorf("ingesting slide %s: %w", ref.Key(), err)
	}
	return result, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	frame := editorService.Resize(domain.Viewport{Width: defaultRenderWidth, Height: defaultRenderHeight})

	if inspectJSON {
		data, err := json.MarshalIndent(frame.Regions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal regions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Slide %s\n", editorService.SlideID())
	if frame.Fallback {
		cmd.Println("  (no preview: fallback layout)")
	}
	cmd.Println()

	if len(frame.Regions) == 0 {
		cmd.Println("No editable regions.")
	}
	for i := range frame.Regions {
		r := &frame.Regions[i]
		cmd.Printf("  %-12s %-12s %s\n", r.RegionID, r.Kind, formatFit(r.Fit))
		if text := r.Content.String(); text != "" {
			for _, line := range strings.Split(text, "\n") {
				cmd.Printf("      %s\n", line)
			}
		}
	}

	for _, skipped := range frame.Skipped {
		cmd.Printf("  skipped %s: %s\n", skipped.RegionID, skipped.Reason)
	}

	if assets := editorService.Assets(); len(assets) > 0 {
		cmd.Println()
		cmd.Printf("Assets (%d)\n", len(assets))
		for i := range assets {
			cmd.Printf("  %s %-8s at %.0f%%, %.0f%%\n",
				assets[i].ID, assets[i].Kind, assets[i].Position.X, assets[i].Position.Y)
		}
	}
	return nil
}

// formatFit renders a fit result as a one-line badge.
func formatFit(fit domain.FitResult) string {
	if !fit.ShowCounter() {
		return "unbounded"
	}
	s := fmt.Sprintf("%d/%d chars (%.0f%%) %s", fit.OccupiedChars, fit.BudgetChars, fit.Percentage, fit.Classification)
	if fit.OverflowChars > 0 {
		s += fmt.Sprintf(", %d over", fit.OverflowChars)
	}
	return s
}

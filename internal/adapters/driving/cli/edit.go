package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var editList bool

var editCmd = &cobra.Command{
	Use:   "edit [slide] [region-id] [text...]",
	Short: "Set the content of a region",
	Long: `Binds content to one region of a slide and reports its fit.

Overflowing content is stored anyway and reported as ERROR. Use --list to
bind each remaining argument as one list item. Regions may also be addressed
by kind (TITLE, BULLETS, ...), which resolves to the first region of that kind.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&editList, "list", false, "bind each argument as a list item")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	regionID := resolveRegion(args[1])
	values := args[2:]

	content := domain.TextContent(strings.Join(values, " "))
	if editList {
		content = domain.ListContent(values...)
	}

	fit, err := editorService.SetContent(ctx, regionID, content)
	if err != nil {
		return err
	}

	cmd.Printf("%s: %s\n", regionID, formatFit(fit))
	return nil
}

// resolveRegion maps a region kind to the first region of that kind.
// Anything else is returned unchanged as a region ID.
func resolveRegion(arg string) string {
	regions := editorService.Regions()
	for i := range regions {
		if regions[i].ID == arg {
			return arg
		}
	}
	kind := domain.RegionKind(strings.ToUpper(arg))
	for i := range regions {
		if regions[i].Kind == kind {
			return regions[i].ID
		}
	}
	return arg
}

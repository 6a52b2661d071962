package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [slide] [prompt...]",
	Short: "Generate slide content with the configured LLM",
	Long: `Asks the content generator to fill the slide's text regions from a prompt.

The generated patch is applied as-is and every touched region is validated,
so over-budget suggestions are reported rather than silently truncated.
Configure a provider with 'slidefit settings generation'.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	fits, err := editorService.Generate(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(fits))
	for id := range fits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cmd.Printf("Generated %d regions:\n", len(ids))
	for _, id := range ids {
		cmd.Printf("  %-12s %s\n", id, formatFit(fits[id]))
		if content, err := editorService.Content(id); err == nil {
			for _, line := range strings.Split(content.String(), "\n") {
				cmd.Printf("      %s\n", line)
			}
		}
	}
	return nil
}

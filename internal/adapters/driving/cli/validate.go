package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var (
	validateBudget int
	validateList   bool
	validateJSON   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [text...]",
	Short: "Check text against a character budget",
	Long: `Classifies content against a character budget without loading a slide.

Characters are counted as user-perceived graphemes after NFC normalisation.
With --list every argument is one list item and the budget is divided evenly
between the items; the overall result is the worst item.

Classifications:
  OK      - below the warning threshold
  WARNING - at or above the warning threshold
  ERROR   - at or above 100% of the budget (edits are never blocked)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVarP(&validateBudget, "budget", "b", 0, "character budget (0 = unbounded)")
	validateCmd.Flags().BoolVar(&validateList, "list", false, "treat each argument as a list item")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the fit result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if fitValidator == nil {
		return errors.New("fit validator not configured")
	}
	if validateBudget < 0 {
		return fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidInput)
	}

	content := domain.TextContent(strings.Join(args, " "))
	if validateList {
		content = domain.ListContent(args...)
	}

	fit := fitValidator.Validate(content, validateBudget)

	if validateJSON {
		data, err := json.MarshalIndent(fit, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal fit result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatFit(fit))
	for i, item := range fit.PerItem {
		cmd.Printf("  [%d] %s\n", i+1, formatFit(item))
	}
	return nil
}

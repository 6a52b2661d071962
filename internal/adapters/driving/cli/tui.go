package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [slide]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal editor for slidefit.

The TUI draws a map of the slide's regions sized to your terminal, lets you
edit each region inline with a live character counter and fit badge, and
places assets on top of the slide. Edits from collaborators appear as they
arrive.

Controls:
  ↑/k, ↓/j - Select region
  Enter/e  - Edit region
  ctrl+s   - Apply list content
  g        - Generate content from a prompt
  d        - Toggle debug grid
  Esc      - Back / Cancel
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(editorService, analysisService, settingsService, fitValidator)

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	if len(args) == 1 {
		ref, err := parseSlideRef(args[0])
		if err != nil {
			return err
		}
		app.WithSlide(ref)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// frameSource is implemented by editor sessions that push frames on change.
type frameSource interface {
	OnChange(fn func(*domain.Frame))
}

var collabCmd = &cobra.Command{
	Use:   "collab",
	Short: "Collaboration commands",
	Long: `Commands for sharing edits with other participants.

Configure the channel with 'slidefit settings collab'.`,
}

var collabListenCmd = &cobra.Command{
	Use:   "listen [slide]",
	Short: "Apply and report remote edits to a slide",
	Long: `Loads a slide and applies edits published by other participants until
interrupted. Each applied change is reported with the slide's current fit.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollabListen,
}

func init() {
	collabCmd.AddCommand(collabListenCmd)
	rootCmd.AddCommand(collabCmd)
}

func runCollabListen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	if src, ok := editorService.(frameSource); ok {
		src.OnChange(func(f *domain.Frame) {
			cmd.Println(summarizeFrame(f))
		})
		defer src.OnChange(nil)
	}

	cmd.Printf("Listening for changes to %s (ctrl+c to stop)\n", editorService.SlideID())

	err := editorService.Listen(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrChannelClosed) {
		return nil
	}
	return err
}

// summarizeFrame describes a frame as region fit counts.
func summarizeFrame(f *domain.Frame) string {
	counts := map[domain.Classification]int{}
	for i := range f.Regions {
		if f.Regions[i].Fit.ShowCounter() {
			counts[f.Regions[i].Fit.Classification]++
		}
	}
	return fmt.Sprintf("Updated %s: %d OK, %d WARNING, %d ERROR, %d assets",
		f.SlideID, counts[domain.FitOK], counts[domain.FitWarning], counts[domain.FitError], len(f.Assets))
}

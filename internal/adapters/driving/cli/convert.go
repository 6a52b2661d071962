package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var (
	convertFrom        string
	convertTo          string
	convertSlideWidth  float64
	convertSlideHeight float64
	convertJSON        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [x] [y] [width] [height]",
	Short: "Convert a rectangle between coordinate spaces",
	Long: `Converts a rectangle between the three coordinate spaces:

  normalized1000   - 0-1000 proportions of the slide, as detected
  relative_percent - 0-100% of the rendered preview box
  absolute         - document-native EMU (914400 per inch)

Absolute conversions use the slide size, which defaults to a 16:9 slide.`,
	Args: cobra.ExactArgs(4),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", string(domain.SpaceNormalized1000), "source space")
	convertCmd.Flags().StringVar(&convertTo, "to", string(domain.SpaceRelativePercent), "target space")
	convertCmd.Flags().Float64Var(&convertSlideWidth, "slide-width", domain.DefaultSlideSize.Width, "slide width in EMU")
	convertCmd.Flags().Float64Var(&convertSlideHeight, "slide-height", domain.DefaultSlideSize.Height, "slide height in EMU")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "output the rectangle as JSON")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	var values [4]float64
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, arg)
		}
		values[i] = v
	}

	in := domain.Rect{
		X:      values[0],
		Y:      values[1],
		Width:  values[2],
		Height: values[3],
		Space:  domain.Space(convertFrom),
	}
	slide := domain.SlideSize{Width: convertSlideWidth, Height: convertSlideHeight}

	out, err := domain.Convert(in, domain.Space(convertTo), slide)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if convertJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rectangle: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s: x=%g y=%g width=%g height=%g\n", out.Space, out.X, out.Y, out.Width, out.Height)
	return nil
}

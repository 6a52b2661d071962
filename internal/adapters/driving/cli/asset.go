package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

var assetPayload string

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage user assets on a slide",
	Long: `Insert, move and remove charts, icons, shapes, images and templates.

Assets are positioned in percent of the slide, independent of the detected
regions. Asset IDs may be shortened to any unique prefix.`,
}

var assetListCmd = &cobra.Command{
	Use:   "list [slide]",
	Short: "List a slide's assets",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetList,
}

var assetAddCmd = &cobra.Command{
	Use:   "add [slide] [kind]",
	Short: "Insert an asset",
	Long: `Inserts an asset of the given kind at the next default position.

Kinds: chart, icon, shape, image, template. The payload is kind-specific JSON,
for example '{"name":"star","color":"#ff6f00","size_pt":24}' for an icon.`,
	Args: cobra.ExactArgs(2),
	RunE: runAssetAdd,
}

var assetMoveCmd = &cobra.Command{
	Use:   "move [slide] [asset-id] [x] [y]",
	Short: "Move an asset to a position in percent",
	Args:  cobra.ExactArgs(4),
	RunE:  runAssetMove,
}

var assetRemoveCmd = &cobra.Command{
	Use:   "remove [slide] [asset-id]",
	Short: "Remove an asset",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssetRemove,
}

func init() {
	assetAddCmd.Flags().StringVarP(&assetPayload, "payload", "p", "", "kind-specific payload as JSON")
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetMoveCmd)
	assetCmd.AddCommand(assetRemoveCmd)
	rootCmd.AddCommand(assetCmd)
}

func runAssetList(cmd *cobra.Command, args []string) error {
	if _, err := loadSlide(cmd.Context(), args[0]); err != nil {
		return err
	}

	assets := editorService.Assets()
	if len(assets) == 0 {
		cmd.Println("No assets.")
		return nil
	}

	cmd.Println("Assets:")
	for i := range assets {
		printAsset(cmd, assets[i])
	}
	return nil
}

func runAssetAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	kind := domain.AssetKind(strings.ToLower(args[1]))
	payload, err := domain.DecodePayload(kind, []byte(assetPayload))
	if err != nil {
		return err
	}

	asset, err := editorService.InsertAsset(ctx, kind, payload)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}

	cmd.Print("Inserted ")
	printAsset(cmd, asset)
	return nil
}

func runAssetMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	id, err := findAsset(args[1])
	if err != nil {
		return err
	}

	var pos domain.Position
	if pos.X, err = strconv.ParseFloat(args[2], 64); err != nil {
		return fmt.Errorf("%w: x %q", domain.ErrInvalidInput, args[2])
	}
	if pos.Y, err = strconv.ParseFloat(args[3], 64); err != nil {
		return fmt.Errorf("%w: y %q", domain.ErrInvalidInput, args[3])
	}

	asset, err := editorService.MoveAsset(ctx, id, pos)
	if err != nil {
		return fmt.Errorf("move failed: %w", err)
	}

	cmd.Print("Moved ")
	printAsset(cmd, asset)
	return nil
}

func runAssetRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := loadSlide(ctx, args[0]); err != nil {
		return err
	}

	id, err := findAsset(args[1])
	if err != nil {
		return err
	}
	if err := editorService.RemoveAsset(ctx, id); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Removed asset: %s\n", id)
	return nil
}

// findAsset resolves an exact asset ID or a unique prefix.
func findAsset(prefix string) (string, error) {
	var matches []string
	for _, a := range editorService.Assets() {
		if a.ID == prefix {
			return a.ID, nil
		}
		if strings.HasPrefix(a.ID, prefix) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("asset %s: %w", prefix, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: asset prefix %q is ambiguous", domain.ErrInvalidInput, prefix)
	}
}

func printAsset(cmd *cobra.Command, a domain.Asset) {
	cmd.Printf("  %s %-8s at %.1f%%, %.1f%%\n", a.ID, a.Kind, a.Position.X, a.Position.Y)
}

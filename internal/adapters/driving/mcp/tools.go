package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// Default render size for render_slide.
const (
	defaultRenderWidth  = 1280
	defaultRenderHeight = 720
)

// toContent builds scalar or list content. Items wins when set.
func toContent(text string, items []string) domain.Content {
	if len(items) > 0 {
		return domain.ListContent(items...)
	}
	return domain.TextContent(text)
}

// FitOutput is the fit of one piece of content.
type FitOutput struct {
	RegionID       string  `json:"region_id,omitempty"`
	Fits           bool    `json:"fits"`
	OccupiedChars  int     `json:"occupied_chars"`
	BudgetChars    int     `json:"budget_chars"`
	Percentage     float64 `json:"percentage"`
	Classification string  `json:"classification"`
	OverflowChars  int     `json:"overflow_chars"`
	Unbounded      bool    `json:"unbounded,omitempty"`
}

func toFitOutput(regionID string, fit domain.FitResult) FitOutput {
	return FitOutput{
		RegionID:       regionID,
		Fits:           fit.Fits,
		OccupiedChars:  fit.OccupiedChars,
		BudgetChars:    fit.BudgetChars,
		Percentage:     fit.Percentage,
		Classification: string(fit.Classification),
		OverflowChars:  fit.OverflowChars,
		Unbounded:      fit.Unbounded,
	}
}

// ValidateFitInput is the input schema for the validate_fit tool.
type ValidateFitInput struct {
	Text   string   `json:"text,omitempty" jsonschema:"scalar content for titles and text regions"`
	Items  []string `json:"items,omitempty" jsonschema:"list items for bullet regions"`
	Budget int      `json:"budget" jsonschema:"character budget of the region, 0 for unbounded"`
}

// ConvertRectInput is the input schema for the convert_rect tool.
type ConvertRectInput struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	From        string  `json:"from" jsonschema:"source space: absolute (EMU), normalized1000 or relative_percent"`
	To          string  `json:"to" jsonschema:"target space: absolute (EMU), normalized1000 or relative_percent"`
	SlideWidth  float64 `json:"slide_width,omitempty" jsonschema:"slide width in EMU (default 16:9)"`
	SlideHeight float64 `json:"slide_height,omitempty" jsonschema:"slide height in EMU (default 16:9)"`
}

// RectOutput is a rectangle in a named space.
type RectOutput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Space  string  `json:"space"`
}

// LoadSlideInput is the input schema for the load_slide tool.
type LoadSlideInput struct {
	FileHash string `json:"file_hash" jsonschema:"content hash of the uploaded presentation"`
	Index    int    `json:"index,omitempty" jsonschema:"zero-based slide number"`
}

// RegionOutput is one region of the loaded slide.
type RegionOutput struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Layout      string    `json:"layout"`
	BudgetChars int       `json:"budget_chars"`
	Content     []string  `json:"content"`
	Fit         FitOutput `json:"fit"`
}

// SlideOutput describes the slide in the editing session.
type SlideOutput struct {
	SlideID string         `json:"slide_id"`
	Regions []RegionOutput `json:"regions"`
	Assets  int            `json:"assets"`
}

// SetContentInput is the input schema for the set_content tool.
type SetContentInput struct {
	RegionID string   `json:"region_id" jsonschema:"the region to edit"`
	Text     string   `json:"text,omitempty" jsonschema:"scalar content for titles and text regions"`
	Items    []string `json:"items,omitempty" jsonschema:"list items for bullet regions"`
}

// GenerateInput is the input schema for the generate_content tool.
type GenerateInput struct {
	Prompt string `json:"prompt" jsonschema:"what the slide should say"`
}

// GenerateOutput lists the fit of every generated region.
type GenerateOutput struct {
	Regions []FitOutput `json:"regions"`
}

// InsertAssetInput is the input schema for the insert_asset tool.
type InsertAssetInput struct {
	Kind    string         `json:"kind" jsonschema:"chart, icon, shape, image or template"`
	Payload map[string]any `json:"payload,omitempty" jsonschema:"kind-specific payload"`
}

// MoveAssetInput is the input schema for the move_asset tool.
type MoveAssetInput struct {
	AssetID string  `json:"asset_id"`
	X       float64 `json:"x" jsonschema:"left edge in percent of the slide width"`
	Y       float64 `json:"y" jsonschema:"top edge in percent of the slide height"`
}

// RemoveAssetInput is the input schema for the remove_asset tool.
type RemoveAssetInput struct {
	AssetID string `json:"asset_id"`
}

// AssetOutput is one asset on the slide.
type AssetOutput struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RemoveAssetOutput confirms a removal.
type RemoveAssetOutput struct {
	Removed string `json:"removed"`
}

// HitTestInput is the input schema for the hit_test tool.
type HitTestInput struct {
	X float64 `json:"x" jsonschema:"pointer x in percent of the slide width"`
	Y float64 `json:"y" jsonschema:"pointer y in percent of the slide height"`
}

// HitTestOutput is what the pointer landed on.
type HitTestOutput struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// RenderInput is the input schema for the render_slide tool.
type RenderInput struct {
	Width  int  `json:"width,omitempty" jsonschema:"viewport width in pixels (default 1280)"`
	Height int  `json:"height,omitempty" jsonschema:"viewport height in pixels (default 720)"`
	Debug  bool `json:"debug,omitempty" jsonschema:"draw the debug grid"`
}

// RenderOutput describes the rendered preview.
type RenderOutput struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Bytes  int `json:"bytes"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_fit",
		Description: "Check whether text or list items fit a character budget",
	}, s.handleValidateFit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "convert_rect",
		Description: "Convert a rectangle between EMU, normalized 0-1000 and percent space",
	}, s.handleConvertRect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_slide",
		Description: "Load an analysed slide into the editing session",
	}, s.handleLoadSlide)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_content",
		Description: "Set a region's content and report its fit; overflow is kept, not truncated",
	}, s.handleSetContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_content",
		Description: "Fill the slide's text regions from a prompt with the configured LLM",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "insert_asset",
		Description: "Insert a chart, icon, shape, image or template on the slide",
	}, s.handleInsertAsset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_asset",
		Description: "Move an asset to a position in percent of the slide",
	}, s.handleMoveAsset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_asset",
		Description: "Remove an asset from the slide",
	}, s.handleRemoveAsset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hit_test",
		Description: "Resolve what a pointer at a percent position would select",
	}, s.handleHitTest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_slide",
		Description: "Render a PNG preview of the slide with its fit overlays",
	}, s.handleRender)
}

// handleValidateFit handles the validate_fit tool invocation.
func (s *Server) handleValidateFit(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ValidateFitInput,
) (*mcp.CallToolResult, FitOutput, error) {
	if input.Budget < 0 {
		return nil, FitOutput{}, fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidInput)
	}
	fit := s.ports.Validator.Validate(toContent(input.Text, input.Items), input.Budget)
	return nil, toFitOutput("", fit), nil
}

// handleConvertRect handles the convert_rect tool invocation.
func (s *Server) handleConvertRect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ConvertRectInput,
) (*mcp.CallToolResult, RectOutput, error) {
	slide := domain.DefaultSlideSize
	if input.SlideWidth > 0 || input.SlideHeight > 0 {
		slide = domain.SlideSize{Width: input.SlideWidth, Height: input.SlideHeight}
	}

	in := domain.Rect{
		X: input.X, Y: input.Y, Width: input.Width, Height: input.Height,
		Space: domain.Space(input.From),
	}
	out, err := domain.Convert(in, domain.Space(input.To), slide)
	if err != nil {
		return nil, RectOutput{}, err
	}

	return nil, RectOutput{X: out.X, Y: out.Y, Width: out.Width, Height: out.Height, Space: string(out.Space)}, nil
}

// handleLoadSlide handles the load_slide tool invocation.
func (s *Server) handleLoadSlide(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadSlideInput,
) (*mcp.CallToolResult, SlideOutput, error) {
	if s.ports.Analysis == nil {
		return nil, SlideOutput{}, ErrMissingAnalysisService
	}
	if input.FileHash == "" || input.Index < 0 {
		return nil, SlideOutput{}, fmt.Errorf("%w: slide reference", domain.ErrInvalidInput)
	}

	ref := domain.SlideRef{FileHash: input.FileHash, Index: input.Index}
	result, err := s.ports.Analysis.Load(ctx, ref)
	if err != nil {
		return nil, SlideOutput{}, fmt.Errorf("loading slide %s: %w", ref.Key(), err)
	}
	if err := s.ports.Editor.Ingest(ctx, result); err != nil {
		return nil, SlideOutput{}, fmt.Errorf("ingesting slide %s: %w", ref.Key(), err)
	}

	return nil, s.describeSlide(), nil
}

// describeSlide summarises the regions and assets of the editing session.
func (s *Server) describeSlide() SlideOutput {
	regions := s.ports.Editor.Regions()
	out := SlideOutput{
		SlideID: s.ports.Editor.SlideID(),
		Regions: make([]RegionOutput, 0, len(regions)),
		Assets:  len(s.ports.Editor.Assets()),
	}
	for i := range regions {
		content, err := s.ports.Editor.Content(regions[i].ID)
		if err != nil {
			continue
		}
		out.Regions = append(out.Regions, RegionOutput{
			ID:          regions[i].ID,
			Kind:        string(regions[i].Kind),
			Layout:      string(regions[i].Layout),
			BudgetChars: regions[i].BudgetChars,
			Content:     contentLines(content),
			Fit:         toFitOutput(regions[i].ID, s.ports.Validator.Validate(content, regions[i].BudgetChars)),
		})
	}
	return out
}

func contentLines(c domain.Content) []string {
	if c.List {
		return c.Items
	}
	return []string{c.Text}
}

// handleSetContent handles the set_content tool invocation.
func (s *Server) handleSetContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetContentInput,
) (*mcp.CallToolResult, FitOutput, error) {
	fit, err := s.ports.Editor.SetContent(ctx, input.RegionID, toContent(input.Text, input.Items))
	if err != nil {
		return nil, FitOutput{}, err
	}
	return nil, toFitOutput(input.RegionID, fit), nil
}

// handleGenerate handles the generate_content tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	fits, err := s.ports.Editor.Generate(ctx, input.Prompt)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	ids := make([]string, 0, len(fits))
	for id := range fits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	output := GenerateOutput{Regions: make([]FitOutput, len(ids))}
	for i, id := range ids {
		output.Regions[i] = toFitOutput(id, fits[id])
	}
	return nil, output, nil
}

// handleInsertAsset handles the insert_asset tool invocation.
func (s *Server) handleInsertAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InsertAssetInput,
) (*mcp.CallToolResult, AssetOutput, error) {
	var raw []byte
	if len(input.Payload) > 0 {
		data, err := json.Marshal(input.Payload)
		if err != nil {
			return nil, AssetOutput{}, fmt.Errorf("%w: payload: %v", domain.ErrInvalidInput, err)
		}
		raw = data
	}

	kind := domain.AssetKind(input.Kind)
	payload, err := domain.DecodePayload(kind, raw)
	if err != nil {
		return nil, AssetOutput{}, err
	}

	asset, err := s.ports.Editor.InsertAsset(ctx, kind, payload)
	if err != nil {
		return nil, AssetOutput{}, err
	}
	return nil, toAssetOutput(asset), nil
}

// handleMoveAsset handles the move_asset tool invocation.
func (s *Server) handleMoveAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveAssetInput,
) (*mcp.CallToolResult, AssetOutput, error) {
	asset, err := s.ports.Editor.MoveAsset(ctx, input.AssetID, domain.Position{X: input.X, Y: input.Y})
	if err != nil {
		return nil, AssetOutput{}, err
	}
	return nil, toAssetOutput(asset), nil
}

// handleRemoveAsset handles the remove_asset tool invocation.
func (s *Server) handleRemoveAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveAssetInput,
) (*mcp.CallToolResult, RemoveAssetOutput, error) {
	if err := s.ports.Editor.RemoveAsset(ctx, input.AssetID); err != nil {
		return nil, RemoveAssetOutput{}, err
	}
	return nil, RemoveAssetOutput{Removed: input.AssetID}, nil
}

func toAssetOutput(a domain.Asset) AssetOutput {
	return AssetOutput{ID: a.ID, Kind: string(a.Kind), X: a.Position.X, Y: a.Position.Y}
}

// handleHitTest handles the hit_test tool invocation.
func (s *Server) handleHitTest(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HitTestInput,
) (*mcp.CallToolResult, HitTestOutput, error) {
	target := s.ports.Editor.HitTest(input.X, input.Y)
	return nil, HitTestOutput{Kind: string(target.Kind), ID: target.ID}, nil
}

// handleRender handles the render_slide tool invocation.
// The PNG is returned as image content alongside its dimensions.
func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	if s.ports.Renderer == nil {
		return nil, RenderOutput{}, ErrMissingRenderer
	}

	viewport := domain.Viewport{Width: input.Width, Height: input.Height}
	if viewport.Width == 0 && viewport.Height == 0 {
		viewport = domain.Viewport{Width: defaultRenderWidth, Height: defaultRenderHeight}
	}
	if !viewport.IsValid() {
		return nil, RenderOutput{}, fmt.Errorf("%w: viewport %dx%d", domain.ErrInvalidInput, viewport.Width, viewport.Height)
	}

	editor := s.ports.Editor
	if editor.Frame().DebugVisible != input.Debug {
		editor.ToggleDebug()
	}
	frame := editor.Resize(viewport)

	var buf bytes.Buffer
	if err := s.ports.Renderer.Render(ctx, frame, &buf); err != nil {
		return nil, RenderOutput{}, fmt.Errorf("rendering slide: %w", err)
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{
			Data:     buf.Bytes(),
			MIMEType: "image/png",
		}},
	}
	return result, RenderOutput{Width: viewport.Width, Height: viewport.Height, Bytes: buf.Len()}, nil
}

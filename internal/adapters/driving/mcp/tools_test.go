package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/services"
)

func TestServer_handleValidateFit(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, nil)

	t.Run("scalar under warning threshold", func(t *testing.T) {
		_, output, err := server.handleValidateFit(ctx, nil, ValidateFitInput{Text: "Hello", Budget: 20})

		require.NoError(t, err)
		assert.True(t, output.Fits)
		assert.Equal(t, 5, output.OccupiedChars)
		assert.Equal(t, 20, output.BudgetChars)
		assert.Equal(t, "OK", output.Classification)
	})

	t.Run("list shares the budget per item", func(t *testing.T) {
		input := ValidateFitInput{Items: []string{"abc", "abcdefgh"}, Budget: 10}
		_, output, err := server.handleValidateFit(ctx, nil, input)

		require.NoError(t, err)
		assert.False(t, output.Fits)
		assert.Equal(t, "ERROR", output.Classification)
		assert.Equal(t, 3, output.OverflowChars)
	})

	t.Run("zero budget is unbounded", func(t *testing.T) {
		_, output, err := server.handleValidateFit(ctx, nil, ValidateFitInput{Text: "anything at all"})

		require.NoError(t, err)
		assert.True(t, output.Fits)
		assert.True(t, output.Unbounded)
	})

	t.Run("negative budget is rejected", func(t *testing.T) {
		_, _, err := server.handleValidateFit(ctx, nil, ValidateFitInput{Text: "x", Budget: -1})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleConvertRect(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, nil)

	t.Run("normalized to percent", func(t *testing.T) {
		input := ConvertRectInput{
			X: 100, Y: 100, Width: 200, Height: 100,
			From: "normalized1000", To: "relative_percent",
		}
		_, output, err := server.handleConvertRect(ctx, nil, input)

		require.NoError(t, err)
		assert.InDelta(t, 10, output.X, 1e-9)
		assert.InDelta(t, 10, output.Y, 1e-9)
		assert.InDelta(t, 20, output.Width, 1e-9)
		assert.InDelta(t, 10, output.Height, 1e-9)
		assert.Equal(t, "relative_percent", output.Space)
	})

	t.Run("percent to absolute with explicit slide size", func(t *testing.T) {
		input := ConvertRectInput{
			X: 50, Y: 50, Width: 10, Height: 20,
			From: "relative_percent", To: "absolute",
			SlideWidth: 1000, SlideHeight: 500,
		}
		_, output, err := server.handleConvertRect(ctx, nil, input)

		require.NoError(t, err)
		assert.InDelta(t, 500, output.X, 1e-9)
		assert.InDelta(t, 250, output.Y, 1e-9)
		assert.InDelta(t, 100, output.Width, 1e-9)
		assert.InDelta(t, 100, output.Height, 1e-9)
	})

	t.Run("unknown space", func(t *testing.T) {
		input := ConvertRectInput{Width: 1, Height: 1, From: "inches", To: "relative_percent"}
		_, _, err := server.handleConvertRect(ctx, nil, input)

		assert.ErrorIs(t, err, domain.ErrUnknownSpace)
	})
}

func TestServer_handleLoadSlide(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests the analysis result", func(t *testing.T) {
		analysis := &mockAnalysisService{result: testSlide()}
		server, err := NewServer(&Ports{
			Editor:    newTestEditor(t, nil),
			Analysis:  analysis,
			Validator: services.NewFitValidator(0),
		})
		require.NoError(t, err)

		_, output, err := server.handleLoadSlide(ctx, nil, LoadSlideInput{FileHash: "deck"})

		require.NoError(t, err)
		assert.Equal(t, []domain.SlideRef{{FileHash: "deck"}}, analysis.loaded)
		assert.Equal(t, "deck#0", output.SlideID)
		assert.Zero(t, output.Assets)

		ids := make([]string, len(output.Regions))
		for i, r := range output.Regions {
			ids[i] = r.ID
		}
		assert.Equal(t, []string{"title", "bullets", "chart"}, ids)
		assert.Equal(t, 20, output.Regions[0].BudgetChars)
		assert.Equal(t, "OK", output.Regions[0].Fit.Classification)
		assert.True(t, output.Regions[2].Fit.Unbounded)
	})

	t.Run("analysis failure is wrapped", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Editor:    newTestEditor(t, nil),
			Analysis:  &mockAnalysisService{err: domain.ErrAnalysisUnavailable},
			Validator: services.NewFitValidator(0),
		})
		require.NoError(t, err)

		_, _, err = server.handleLoadSlide(ctx, nil, LoadSlideInput{FileHash: "deck", Index: 2})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
		assert.Contains(t, err.Error(), "deck#2")
	})

	t.Run("empty hash is rejected", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, _, err := server.handleLoadSlide(ctx, nil, LoadSlideInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing analysis service", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Editor:    newTestEditor(t, nil),
			Validator: services.NewFitValidator(0),
		})
		require.NoError(t, err)

		_, _, err = server.handleLoadSlide(ctx, nil, LoadSlideInput{FileHash: "deck"})

		assert.ErrorIs(t, err, ErrMissingAnalysisService)
	})
}

func TestServer_handleSetContent(t *testing.T) {
	ctx := context.Background()

	t.Run("reports fit and keeps overflow", func(t *testing.T) {
		server, editor := newTestServer(t, nil)
		input := SetContentInput{RegionID: "title", Text: "A title far longer than twenty"}

		_, output, err := server.handleSetContent(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "title", output.RegionID)
		assert.Equal(t, "ERROR", output.Classification)
		assert.Equal(t, 10, output.OverflowChars)

		content, err := editor.Content("title")
		require.NoError(t, err)
		assert.Equal(t, "A title far longer than twenty", content.Text)
	})

	t.Run("list content", func(t *testing.T) {
		server, editor := newTestServer(t, nil)
		input := SetContentInput{RegionID: "bullets", Items: []string{"First", "Second"}}

		_, output, err := server.handleSetContent(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 11, output.OccupiedChars)
		content, err := editor.Content("bullets")
		require.NoError(t, err)
		assert.Equal(t, []string{"First", "Second"}, content.Items)
	})

	t.Run("unknown region", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, _, err := server.handleSetContent(ctx, nil, SetContentInput{RegionID: "footer", Text: "x"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the generated patch", func(t *testing.T) {
		server, _ := newTestServer(t, &mockGenerator{patch: domain.ContentPatch{
			"TITLE":   domain.TextContent("Quarterly results"),
			"BULLETS": domain.ListContent("Revenue up", "Costs down"),
		}})

		_, output, err := server.handleGenerate(ctx, nil, GenerateInput{Prompt: "Q3 review"})

		require.NoError(t, err)
		require.Len(t, output.Regions, 2)
		assert.Equal(t, "bullets", output.Regions[0].RegionID)
		assert.Equal(t, "title", output.Regions[1].RegionID)
		assert.Equal(t, "WARNING", output.Regions[1].Classification)
	})

	t.Run("generator error", func(t *testing.T) {
		server, _ := newTestServer(t, &mockGenerator{err: errors.New("model offline")})

		_, _, err := server.handleGenerate(ctx, nil, GenerateInput{Prompt: "anything"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model offline")
	})

	t.Run("no generator configured", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, _, err := server.handleGenerate(ctx, nil, GenerateInput{Prompt: "anything"})

		assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
	})
}

func TestServer_AssetTools(t *testing.T) {
	ctx := context.Background()
	server, editor := newTestServer(t, nil)

	_, inserted, err := server.handleInsertAsset(ctx, nil, InsertAssetInput{
		Kind:    "icon",
		Payload: map[string]any{"name": "star", "color": "#ff6f00", "size_pt": 24},
	})
	require.NoError(t, err)
	assert.Equal(t, "icon", inserted.Kind)
	require.Len(t, editor.Assets(), 1)

	icon, ok := editor.Assets()[0].Payload.(*domain.IconPayload)
	require.True(t, ok)
	assert.Equal(t, "star", icon.Name)
	assert.InDelta(t, 24, icon.SizePt, 1e-9)

	_, moved, err := server.handleMoveAsset(ctx, nil, MoveAssetInput{AssetID: inserted.ID, X: 20, Y: 30})
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, moved.ID)
	assert.InDelta(t, 20, moved.X, 1e-9)
	assert.InDelta(t, 30, moved.Y, 1e-9)

	_, removed, err := server.handleRemoveAsset(ctx, nil, RemoveAssetInput{AssetID: inserted.ID})
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, removed.Removed)
	assert.Empty(t, editor.Assets())
}

func TestServer_handleInsertAsset_Errors(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, nil)

	_, _, err := server.handleInsertAsset(ctx, nil, InsertAssetInput{Kind: "sticker"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, _, err = server.handleInsertAsset(ctx, nil, InsertAssetInput{
		Kind:    "icon",
		Payload: map[string]any{"size_pt": "large"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = server.handleMoveAsset(ctx, nil, MoveAssetInput{AssetID: "missing", X: 1, Y: 1})
	assert.Error(t, err)
}

func TestServer_handleHitTest(t *testing.T) {
	ctx := context.Background()
	server, editor := newTestServer(t, nil)
	editor.Resize(domain.Viewport{Width: 1280, Height: 720})

	_, output, err := server.handleHitTest(ctx, nil, HitTestInput{X: 20, Y: 15})
	require.NoError(t, err)
	assert.Equal(t, HitTestOutput{Kind: "region", ID: "title"}, output)

	_, output, err = server.handleHitTest(ctx, nil, HitTestInput{X: 50, Y: 50})
	require.NoError(t, err)
	assert.Equal(t, HitTestOutput{Kind: "region", ID: "bullets"}, output)

	_, output, err = server.handleHitTest(ctx, nil, HitTestInput{X: 2, Y: 95})
	require.NoError(t, err)
	assert.Equal(t, "none", output.Kind)
}

func TestServer_handleRender(t *testing.T) {
	ctx := context.Background()

	t.Run("returns png content", func(t *testing.T) {
		renderer := &mockRenderer{data: []byte("\x89PNG fake")}
		editor := newTestEditor(t, nil)
		require.NoError(t, editor.Ingest(ctx, testSlide()))
		server, err := NewServer(&Ports{
			Editor:    editor,
			Validator: services.NewFitValidator(0),
			Renderer:  renderer,
		})
		require.NoError(t, err)

		result, output, err := server.handleRender(ctx, nil, RenderInput{Debug: true})

		require.NoError(t, err)
		assert.Equal(t, RenderOutput{Width: 1280, Height: 720, Bytes: 9}, output)
		require.NotNil(t, result)
		require.Len(t, result.Content, 1)
		image, ok := result.Content[0].(*mcp.ImageContent)
		require.True(t, ok)
		assert.Equal(t, "image/png", image.MIMEType)
		assert.Equal(t, []byte("\x89PNG fake"), image.Data)

		require.NotNil(t, renderer.frame)
		assert.True(t, renderer.frame.DebugVisible)
		assert.Equal(t, domain.ViewInteractive, renderer.frame.State)
	})

	t.Run("invalid viewport", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, _, err := server.handleRender(ctx, nil, RenderInput{Width: 100, Height: -1})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("renderer failure", func(t *testing.T) {
		editor := newTestEditor(t, nil)
		server, err := NewServer(&Ports{
			Editor:    editor,
			Validator: services.NewFitValidator(0),
			Renderer:  &mockRenderer{err: errors.New("disk full")},
		})
		require.NoError(t, err)

		_, _, err = server.handleRender(ctx, nil, RenderInput{Width: 64, Height: 36})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("missing renderer", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Editor:    newTestEditor(t, nil),
			Validator: services.NewFitValidator(0),
		})
		require.NoError(t, err)

		_, _, err = server.handleRender(ctx, nil, RenderInput{})

		assert.ErrorIs(t, err, ErrMissingRenderer)
	})
}

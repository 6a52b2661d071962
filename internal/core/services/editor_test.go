package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/logger"
)

func testAnalysis() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SlideID:         "deck#0",
		SlideWidth:      12192000,
		SlideHeight:     6858000,
		Regions:         sampleRegions(),
		PreviewImageRef: "previews/deck-0.png",
	}
}

type editorFixture struct {
	session *EditorSession
	store   *memory.SlideStore
	collab  *recordingChannel
	gen     *mockGenerator
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	f := &editorFixture{
		store:  memory.NewSlideStore(),
		collab: newRecordingChannel(),
		gen:    &mockGenerator{},
	}
	session, err := NewEditorSession(EditorPorts{
		Validator: NewFitValidator(0),
		Scaler:    NewDisplayScaler(domain.DisplaySettings{}, 0),
		Store:     f.store,
		Collab:    f.collab,
		Generator: f.gen,
		User:      "alice",
	})
	require.NoError(t, err)
	f.session = session
	require.NoError(t, session.Ingest(context.Background(), testAnalysis()))
	session.Resize(domain.Viewport{Width: 1600, Height: 900})
	return f
}

func TestNewEditorSession_RequiresPorts(t *testing.T) {
	_, err := NewEditorSession(EditorPorts{})
	assert.Error(t, err)
}

func TestEditorSession_BeforeIngest(t *testing.T) {
	session, err := NewEditorSession(EditorPorts{
		Validator: NewFitValidator(0),
		Scaler:    NewDisplayScaler(domain.DisplaySettings{}, 0),
	})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Empty(t, session.SlideID())
	assert.Equal(t, domain.ViewIdle, session.Frame().State)
	_, err = session.SetContent(ctx, "title", domain.TextContent("x"))
	assert.ErrorIs(t, err, domain.ErrNoSlide)
	_, err = session.InsertAsset(ctx, domain.AssetIcon, nil)
	assert.ErrorIs(t, err, domain.ErrNoSlide)
	_, err = session.Export(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSlide)
	assert.ErrorIs(t, session.Ingest(ctx, nil), domain.ErrInvalidInput)
}

func TestEditorSession_SetContent(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	fit, err := f.session.SetContent(ctx, "title", domain.TextContent(strings.Repeat("x", 50)))

	// Overflow is reported, never rejected.
	require.NoError(t, err)
	assert.Equal(t, domain.FitError, fit.Classification)
	assert.Equal(t, 10, fit.OverflowChars)

	content, err := f.session.Content("title")
	require.NoError(t, err)
	assert.Len(t, content.Text, 50)

	stored, _ := f.store.LoadBinding(ctx, "deck#0")
	assert.Len(t, stored["title"].Text, 50)

	el, ok := f.session.Frame().Region("title")
	require.True(t, ok)
	assert.Equal(t, domain.FitError, el.Fit.Classification)

	published := f.collab.Published()
	require.Len(t, published, 1)
	assert.Equal(t, domain.MutationContent, published[0].Kind)
	assert.Equal(t, "alice", published[0].Origin)
	assert.Equal(t, "deck#0", published[0].SlideID)
	assert.NotEmpty(t, published[0].ID)
}

func TestEditorSession_SetContent_ReshapesForLayout(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	fit, err := f.session.SetContent(ctx, "bullets", domain.TextContent("first\nsecond"))
	require.NoError(t, err)
	assert.Len(t, fit.PerItem, 2)

	content, _ := f.session.Content("bullets")
	assert.True(t, content.List)
	assert.Equal(t, []string{"first", "second"}, content.Items)
}

func TestEditorSession_SetContent_Errors(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	_, err := f.session.SetContent(ctx, "missing", domain.TextContent("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.session.SetContent(ctx, "chart", domain.TextContent("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditorSession_SetContent_PersistFailureKeepsEdit(t *testing.T) {
	session, err := NewEditorSession(EditorPorts{
		Validator: NewFitValidator(0),
		Scaler:    NewDisplayScaler(domain.DisplaySettings{}, 0),
		Store:     failingStore{},
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, session.Ingest(ctx, testAnalysis()))

	fit, err := session.SetContent(ctx, "title", domain.TextContent("Hello"))

	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, domain.FitOK, fit.Classification)
	content, _ := session.Content("title")
	assert.Equal(t, "Hello", content.Text)
}

func TestEditorSession_IngestRestoresState(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	_, err := f.session.SetContent(ctx, "title", domain.TextContent("Persisted"))
	require.NoError(t, err)
	_, err = f.session.InsertAsset(ctx, domain.AssetIcon, &domain.IconPayload{Name: "star"})
	require.NoError(t, err)

	other, err := NewEditorSession(EditorPorts{
		Validator: NewFitValidator(0),
		Scaler:    NewDisplayScaler(domain.DisplaySettings{}, 0),
		Store:     f.store,
	})
	require.NoError(t, err)
	require.NoError(t, other.Ingest(ctx, testAnalysis()))

	content, _ := other.Content("title")
	assert.Equal(t, "Persisted", content.Text)
	assert.Len(t, other.Assets(), 1)
}

func TestEditorSession_IngestWithoutPreviewUsesFallback(t *testing.T) {
	f := newEditorFixture(t)
	result := testAnalysis()
	result.PreviewImageRef = ""

	require.NoError(t, f.session.Ingest(context.Background(), result))
	frame := f.session.Frame()

	assert.Equal(t, domain.ViewInteractive, frame.State)
	assert.True(t, frame.Fallback)
	assert.Len(t, frame.Regions, 4)
}

func TestEditorSession_IngestWarnsOnMissingSlideSize(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	logger.SetVerbose(true)
	defer func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	}()

	f := newEditorFixture(t)
	ctx := context.Background()

	result := testAnalysis()
	result.SlideWidth, result.SlideHeight = 0, 0
	require.NoError(t, f.session.Ingest(ctx, result))
	assert.NotContains(t, logs.String(), "no slide size", "normalized regions convert without a size")

	result.Regions = append(result.Regions, domain.Region{
		ID: "abs", Kind: domain.RegionFooter,
		Position: &domain.Rect{X: 0, Y: 0, Width: 914400, Height: 914400, Space: domain.SpaceAbsolute},
	})
	require.NoError(t, f.session.Ingest(ctx, result))
	assert.Contains(t, logs.String(), "deck#0 has absolute regions but no slide size")
}

func TestEditorSession_ApplyPatch(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	results, err := f.session.ApplyPatch(ctx, domain.ContentPatch{
		"TITLE":      domain.TextContent("Generated title"),
		"BULLETS":    domain.ListContent("one", "two", "three"),
		"CHART_AREA": domain.TextContent("ignored"),
		"SPARKLE":    domain.TextContent("ignored"),
		"footer":     domain.TextContent("by region id"),
	})

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, domain.FitOK, results["title"].Classification)
	assert.Len(t, results["bullets"].PerItem, 3)
	assert.True(t, results["footer"].Unbounded)

	content, _ := f.session.Content("footer")
	assert.Equal(t, "by region id", content.Text)
}

func TestEditorSession_Generate(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(req driven.GenerationRequest) bool {
		if req.Prompt != "make it punchy" || len(req.Regions) != 3 {
			return false
		}
		return req.Regions[0].Kind == domain.RegionTitle && req.Regions[0].BudgetChars == 40 &&
			req.Regions[1].Layout == domain.LayoutList
	})).Return(domain.ContentPatch{
		"TITLE":   domain.TextContent("Punchy"),
		"BULLETS": domain.ListContent(strings.Repeat("z", 70), "y"),
	}, nil).Once()

	results, err := f.session.Generate(ctx, "make it punchy")

	require.NoError(t, err)
	f.gen.AssertExpectations(t)
	assert.Equal(t, domain.FitOK, results["title"].Classification)
	bullets := results["bullets"]
	assert.Equal(t, domain.FitError, bullets.Classification)
	require.Len(t, bullets.PerItem, 2)
	assert.Equal(t, domain.FitError, bullets.PerItem[0].Classification)
	assert.Equal(t, domain.FitOK, bullets.PerItem[1].Classification)
}

func TestEditorSession_Generate_Errors(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	f.gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("model offline")).Once()
	_, err := f.session.Generate(ctx, "anything")
	assert.ErrorContains(t, err, "model offline")

	session, _ := NewEditorSession(EditorPorts{
		Validator: NewFitValidator(0),
		Scaler:    NewDisplayScaler(domain.DisplaySettings{}, 0),
	})
	_, err = session.Generate(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
}

func TestEditorSession_DragCommitsOnRelease(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	asset, err := f.session.InsertAsset(ctx, domain.AssetShape, &domain.ShapePayload{Shape: "circle"})
	require.NoError(t, err)

	require.NoError(t, f.session.BeginDrag(asset.ID))
	require.NoError(t, f.session.DragTo(domain.Position{X: 10, Y: 10}))
	require.NoError(t, f.session.DragTo(domain.Position{X: 20, Y: 15}))

	// Nothing is written while dragging.
	stored, _ := f.store.ListAssets(ctx, "deck#0")
	assert.Equal(t, asset.Position, stored[0].Position)
	frame := f.session.Frame()
	assert.Equal(t, domain.Position{X: 20, Y: 15}, frame.Assets[0].Position)
	assert.True(t, frame.Assets[0].Dragging)

	moved, err := f.session.EndDrag(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 20, Y: 15}, moved.Position)

	stored, _ = f.store.ListAssets(ctx, "deck#0")
	assert.Equal(t, domain.Position{X: 20, Y: 15}, stored[0].Position)

	kinds := []domain.MutationKind{}
	for _, m := range f.collab.Published() {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []domain.MutationKind{domain.MutationAssetInsert, domain.MutationAssetMove}, kinds)

	_, err = f.session.EndDrag(ctx)
	assert.ErrorIs(t, err, domain.ErrNoDrag)
}

func TestEditorSession_SelectionIsExclusive(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	a1, _ := f.session.InsertAsset(ctx, domain.AssetIcon, nil)
	a2, _ := f.session.InsertAsset(ctx, domain.AssetIcon, nil)

	require.NoError(t, f.session.SelectAsset(a1.ID))
	require.NoError(t, f.session.SelectAsset(a2.ID))

	selected := 0
	for _, a := range f.session.Frame().Assets {
		if a.Selected {
			selected++
			assert.Equal(t, a2.ID, a.AssetID)
		}
	}
	assert.Equal(t, 1, selected)

	assert.ErrorIs(t, f.session.SelectAsset("missing"), domain.ErrNotFound)
	require.NoError(t, f.session.SelectAsset(""))
}

func TestEditorSession_RemoveAsset(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	a, _ := f.session.InsertAsset(ctx, domain.AssetImage, &domain.ImagePayload{Ref: "x.png"})
	require.NoError(t, f.session.SelectAsset(a.ID))

	require.NoError(t, f.session.RemoveAsset(ctx, a.ID))

	assert.Empty(t, f.session.Assets())
	assert.Empty(t, f.session.Frame().Assets)
	assert.ErrorIs(t, f.session.RemoveAsset(ctx, a.ID), domain.ErrNotFound)
}

func TestEditorSession_ApplyRemote(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	title := domain.TextContent("From bob")
	asset := domain.Asset{ID: "bob-asset", Kind: domain.AssetIcon, Position: domain.Position{X: 5, Y: 5},
		Payload: &domain.IconPayload{Name: "flag"}}

	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationContent, Origin: "bob", RegionID: "title", Content: &title,
	}))
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationAssetInsert, Origin: "bob", AssetID: asset.ID, Asset: &asset,
	}))
	pos := domain.Position{X: 60, Y: 70}
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationAssetMove, Origin: "bob", AssetID: asset.ID, Position: &pos,
	}))

	content, _ := f.session.Content("title")
	assert.Equal(t, "From bob", content.Text)
	require.Len(t, f.session.Assets(), 1)
	assert.Equal(t, pos, f.session.Assets()[0].Position)

	// Remote mutations are not re-published.
	assert.Empty(t, f.collab.Published())

	// Other slides and repeated removals are ignored.
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{SlideID: "other", Kind: domain.MutationAssetRemove}))
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationAssetRemove, AssetID: asset.ID,
	}))
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationAssetRemove, AssetID: asset.ID,
	}))
	assert.Empty(t, f.session.Assets())

	err := f.session.ApplyRemote(ctx, domain.Mutation{SlideID: "deck#0", Kind: "rename"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestEditorSession_LastWriteWins(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()

	_, err := f.session.SetContent(ctx, "title", domain.TextContent("local"))
	require.NoError(t, err)
	remote := domain.TextContent("remote")
	require.NoError(t, f.session.ApplyRemote(ctx, domain.Mutation{
		SlideID: "deck#0", Kind: domain.MutationContent, RegionID: "title", Content: &remote,
	}))

	content, _ := f.session.Content("title")
	assert.Equal(t, "remote", content.Text)
}

func TestEditorSession_Listen(t *testing.T) {
	f := newEditorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	f.session.OnChange(func(*domain.Frame) { changed <- struct{}{} })

	done := make(chan error, 1)
	go func() { done <- f.session.Listen(ctx) }()

	title := domain.TextContent("live")
	f.collab.in <- domain.Mutation{SlideID: "deck#0", Kind: domain.MutationContent, RegionID: "title", Content: &title}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("remote mutation not applied")
	}
	content, _ := f.session.Content("title")
	assert.Equal(t, "live", content.Text)

	close(f.collab.in)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not return")
	}
}

func TestEditorSession_ExportUsesStoredFormatting(t *testing.T) {
	f := newEditorFixture(t)
	ctx := context.Background()
	_, err := f.session.SetContent(ctx, "title", domain.TextContent(strings.Repeat("y", 80)))
	require.NoError(t, err)
	_, err = f.session.InsertAsset(ctx, domain.AssetChart, &domain.ChartPayload{ChartType: "bar"})
	require.NoError(t, err)

	el, _ := f.session.Frame().Region("title")
	require.Less(t, el.DisplayFontPt, 40.0)

	bundle, err := f.session.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, "deck#0", bundle.SlideID)
	require.Len(t, bundle.Regions, 4)
	assert.InDelta(t, 40.0, bundle.Regions[0].Formatting.BaseFontSizePt, 1e-9)
	assert.Equal(t, domain.SpaceAbsolute, bundle.Regions[0].Position.Space)
	assert.InDelta(t, 50.0*12192000/1000, bundle.Regions[0].Position.X, 1e-3)
	assert.Len(t, bundle.Regions[0].Content.Text, 80)
	assert.True(t, bundle.Regions[1].Content.List)
	assert.Empty(t, bundle.Regions[1].Content.Items)
	assert.Len(t, bundle.Assets, 1)
}

func TestEditorSession_HitTestAndToggles(t *testing.T) {
	f := newEditorFixture(t)

	assert.Equal(t, domain.HitTarget{Kind: domain.HitRegion, ID: "title"}, f.session.HitTest(50, 8))
	assert.Equal(t, domain.HitDebugToggle, f.session.HitTest(96, 3).Kind)

	assert.True(t, f.session.ToggleDebug())
	assert.Len(t, f.session.Frame().Debug, 4)
	assert.False(t, f.session.ToggleDebug())

	f.session.SetMediaVisible(false)
	assert.False(t, f.session.Frame().MediaVisible)
}

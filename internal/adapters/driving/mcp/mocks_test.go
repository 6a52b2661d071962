package mcp

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/services"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result *domain.AnalysisResult
	err    error
	loaded []domain.SlideRef
}

func (m *mockAnalysisService) Load(_ context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
	m.loaded = append(m.loaded, ref)
	return m.result, m.err
}

func (m *mockAnalysisService) Invalidate(_ context.Context, _ domain.SlideRef) error {
	return m.err
}

// mockRenderer is a mock implementation of driven.FrameRenderer.
type mockRenderer struct {
	data  []byte
	err   error
	frame *domain.Frame
}

func (m *mockRenderer) Render(_ context.Context, frame *domain.Frame, w io.Writer) error {
	m.frame = frame
	if m.err != nil {
		return m.err
	}
	_, err := w.Write(m.data)
	return err
}

// mockGenerator is a mock implementation of driven.ContentGenerator.
type mockGenerator struct {
	patch domain.ContentPatch
	err   error
}

func (m *mockGenerator) Generate(_ context.Context, _ driven.GenerationRequest) (domain.ContentPatch, error) {
	return m.patch, m.err
}

func (m *mockGenerator) ModelName() string { return "mock" }

func (m *mockGenerator) Ping(_ context.Context) error { return m.err }

func testSlide() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SlideID:         "deck#0",
		Ref:             domain.SlideRef{FileHash: "deck"},
		PreviewImageRef: "previews/deck-0.png",
		Regions: []domain.Region{
			{
				ID:          "title",
				Kind:        domain.RegionTitle,
				Position:    &domain.Rect{X: 100, Y: 100, Width: 200, Height: 100, Space: domain.SpaceNormalized1000},
				Formatting:  domain.Formatting{BaseFontSizePt: 40},
				BudgetChars: 20,
			},
			{
				ID:          "bullets",
				Kind:        domain.RegionBullets,
				Position:    &domain.Rect{X: 100, Y: 300, Width: 800, Height: 500, Space: domain.SpaceNormalized1000},
				Formatting:  domain.Formatting{BaseFontSizePt: 24},
				BudgetChars: 60,
			},
			{
				ID:       "chart",
				Kind:     domain.RegionChartArea,
				Position: &domain.Rect{X: 600, Y: 100, Width: 300, Height: 150, Space: domain.SpaceNormalized1000},
			},
		},
	}
}

// newTestEditor returns a real editing session over an in-memory store.
// A nil generator leaves generation unavailable.
func newTestEditor(t *testing.T, generator driven.ContentGenerator) *services.EditorSession {
	t.Helper()
	editor, err := services.NewEditorSession(services.EditorPorts{
		Validator: services.NewFitValidator(0),
		Scaler:    services.NewDisplayScaler(domain.DisplaySettings{}, 0),
		Store:     memory.NewSlideStore(),
		Generator: generator,
	})
	require.NoError(t, err)
	return editor
}

// newTestServer returns a server with every port set and the test slide loaded.
func newTestServer(t *testing.T, generator driven.ContentGenerator) (*Server, *services.EditorSession) {
	t.Helper()
	editor := newTestEditor(t, generator)
	require.NoError(t, editor.Ingest(context.Background(), testSlide()))

	server, err := NewServer(&Ports{
		Editor:    editor,
		Analysis:  &mockAnalysisService{result: testSlide()},
		Validator: services.NewFitValidator(0),
		Renderer:  &mockRenderer{data: []byte("\x89PNG")},
	})
	require.NoError(t, err)
	return server, editor
}

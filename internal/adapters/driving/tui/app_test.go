package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/services"
)

func testResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SlideID:         "deck#0",
		PreviewImageRef: "previews/deck-0.png",
		Regions: []domain.Region{
			{
				ID:          "title",
				Kind:        domain.RegionTitle,
				Position:    &domain.Rect{X: 50, Y: 40, Width: 900, Height: 120, Space: domain.SpaceNormalized1000},
				BudgetChars: 40,
			},
		},
	}
}

func newTestApp(t *testing.T) (*App, *services.EditorSession) {
	t.Helper()
	editor := newTestEditor(t)
	analysis := &stubAnalysis{
		LoadFunc: func(_ context.Context, ref domain.SlideRef) (*domain.AnalysisResult, error) {
			if ref.FileHash != "deck" {
				return nil, domain.ErrNotFound
			}
			return testResult(), nil
		},
	}
	app, err := NewApp(NewPorts(editor, analysis, nil, services.NewFitValidator(0)))
	require.NoError(t, err)
	return app, editor
}

func TestNewApp_Success(t *testing.T) {
	app, _ := newTestApp(t)

	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingEditorService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_LoadSlide(t *testing.T) {
	app, editor := newTestApp(t)
	app.SetDimensions(100, 40)

	msg := app.loadSlide(domain.SlideRef{FileHash: "deck"})()

	loaded, ok := msg.(messages.SlideLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, "deck#0", editor.SlideID())

	app.Update(msg)
	assert.Equal(t, messages.ViewEditor, app.CurrentView())
	assert.Contains(t, app.View(), "Regions (1)")
}

func TestApp_LoadSlide_Error(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 40)

	msg := app.loadSlide(domain.SlideRef{FileHash: "missing"})()
	app.Update(msg)

	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_LoadSlide_NoAnalysisService(t *testing.T) {
	app, err := NewApp(&Ports{Editor: newTestEditor(t)})
	require.NoError(t, err)

	msg := app.WithSlide(domain.SlideRef{FileHash: "deck"}).loadSlide(*app.slide)()

	loaded, ok := msg.(messages.SlideLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrMissingAnalysisService)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	tests := []struct {
		view     messages.ViewType
		contains string
	}{
		{messages.ViewEditor, "No regions"},
		{messages.ViewAssets, "Assets"},
		{messages.ViewSettings, "Settings"},
		{messages.ViewHelp, "Help"},
		{messages.ViewMenu, "slidefit"},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app, _ := newTestApp(t)
			app.SetDimensions(100, 40)

			app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Contains(t, app.View(), tt.contains)
		})
	}
}

func TestApp_EditThroughKeys(t *testing.T) {
	app, editor := newTestApp(t)
	app.SetDimensions(100, 40)
	app.Update(app.loadSlide(domain.SlideRef{FileHash: "deck"})())

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range "Hi" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	content, err := editor.Content("title")
	require.NoError(t, err)
	assert.Equal(t, "Hi", content.Text)
	assert.NoError(t, app.Err())
}

func TestApp_FrameUpdatedReachesViews(t *testing.T) {
	app, editor := newTestApp(t)
	app.SetDimensions(100, 40)
	app.Update(app.loadSlide(domain.SlideRef{FileHash: "deck"})())

	_, err := editor.SetContent(context.Background(), "title", domain.TextContent("Remote"))
	require.NoError(t, err)
	app.Update(messages.FrameUpdated{Frame: editor.Frame()})

	assert.Contains(t, app.View(), "Remote")
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 40)
	app.Update(messages.ViewChanged{View: messages.ViewEditor})

	app.Update(messages.ErrorOccurred{Err: errors.New("test error")})

	assert.EqualError(t, app.Err(), "test error")
	assert.Contains(t, app.View(), "test error")
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_HelpEscape(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_MenuNavigatesToEditor(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewEditor, app.CurrentView())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Help(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "ctrl+s")
	assert.Contains(t, view, "Nudge selected asset")
}

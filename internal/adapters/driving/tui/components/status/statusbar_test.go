package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, Summary{}, bar.Summary())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	assert.Equal(t, 80, bar.Width())

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetSummary(Summary{Regions: 3, Errors: 1})

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, Summary{}, bar.Summary())
}

func TestSummarise(t *testing.T) {
	frame := &domain.Frame{Regions: []domain.RegionElement{
		{RegionID: "a", Fit: domain.FitResult{Classification: domain.FitOK}},
		{RegionID: "b", Fit: domain.FitResult{Classification: domain.FitWarning}},
		{RegionID: "c", Fit: domain.FitResult{Classification: domain.FitError}},
		{RegionID: "d", Fit: domain.FitResult{Classification: domain.FitError}},
	}}

	assert.Equal(t, Summary{Regions: 4, Warnings: 1, Errors: 2}, Summarise(frame))
	assert.Equal(t, Summary{}, Summarise(nil))
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		summary  Summary
		contains []string
	}{
		{name: "ready", state: StateReady, contains: []string{"Ready", "quit"}},
		{name: "loading", state: StateLoading, contains: []string{"Loading slide"}},
		{name: "generating", state: StateGenerating, contains: []string{"Generating"}},
		{name: "error", state: StateError, contains: []string{"Error"}},
		{name: "error with message", state: StateError, message: "connection failed", contains: []string{"Error: connection failed"}},
		{name: "help", state: StateHelp, contains: []string{"Help"}},
		{
			name:     "summary",
			state:    StateReady,
			summary:  Summary{Regions: 5, Warnings: 1, Errors: 2},
			contains: []string{"5 regions", "1 near limit", "2 over", "generate"},
		},
		{name: "editing", state: StateEditing, summary: Summary{Regions: 1}, contains: []string{"apply", "cancel"}},
		{name: "message overrides summary", state: StateReady, message: "Saved", summary: Summary{Regions: 5}, contains: []string{"Saved"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetSummary(tt.summary)

			view := bar.View()

			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestStatusBar_SetBindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	bar.SetBindings(km.AssetsHelp())
	assert.Contains(t, bar.View(), "add asset")

	bar.SetBindings(nil)
	assert.NotContains(t, bar.View(), "add asset")
}

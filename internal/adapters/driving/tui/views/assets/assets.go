// Package assets provides the asset placement view for the TUI.
package assets

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/canvas"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// NudgeStep is how far one nudge moves an asset, in percent of the slide.
const NudgeStep = 5.0

// kindPicker is the overlay for choosing which asset kind to insert.
type kindPicker struct {
	kinds    []domain.AssetKind
	selected int
}

// View lists the slide's assets and places them on the slide map.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	canvas    *canvas.Canvas
	statusbar *status.Bar

	editor driving.EditorService
	ctx    context.Context

	assets   []domain.Asset
	selected int
	picker   *kindPicker
	frame    *domain.Frame

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new asset view.
func NewView(s *styles.Styles, km *keymap.KeyMap, editor driving.EditorService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.AssetsHelp())

	return &View{
		styles:    s,
		keymap:    km,
		canvas:    canvas.New(s),
		statusbar: bar,
		editor:    editor,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current assets.
func (v *View) Init() tea.Cmd {
	v.refresh()
	return nil
}

// Update handles messages for the asset view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.picker != nil {
			return v.handlePickerKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.AssetsChanged:
		v.refresh()
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		return v, nil

	case messages.FrameUpdated:
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.NudgeLeft):
		return v, v.nudge(-NudgeStep, 0)
	case keymap.Matches(keyStr, v.keymap.NudgeRight):
		return v, v.nudge(NudgeStep, 0)
	case keymap.Matches(keyStr, v.keymap.NudgeUp):
		return v, v.nudge(0, -NudgeStep)
	case keymap.Matches(keyStr, v.keymap.NudgeDown):
		return v, v.nudge(0, NudgeStep)
	case keymap.Matches(keyStr, v.keymap.Up):
		v.move(-1)
	case keymap.Matches(keyStr, v.keymap.Down):
		v.move(1)
	case keymap.Matches(keyStr, v.keymap.Insert):
		v.picker = &kindPicker{kinds: domain.AllAssetKinds()}
	case keymap.Matches(keyStr, v.keymap.Remove):
		return v, v.remove()
	default:
		if kind, ok := quickKind(keyStr); ok {
			return v, v.insert(kind)
		}
	}
	return v, nil
}

func (v *View) handlePickerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.picker = nil
		return v, nil
	case tea.KeyEnter:
		kind := v.picker.kinds[v.picker.selected]
		v.picker = nil
		return v, v.insert(kind)
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.picker.selected > 0 {
			v.picker.selected--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.picker.selected < len(v.picker.kinds)-1 {
			v.picker.selected++
		}
	default:
		if kind, ok := quickKind(keyStr); ok {
			v.picker = nil
			return v, v.insert(kind)
		}
	}
	return v, nil
}

// move changes the selected asset and marks it selected on the frame.
func (v *View) move(delta int) {
	if len(v.assets) == 0 {
		return
	}
	next := v.selected + delta
	if next < 0 || next >= len(v.assets) {
		return
	}
	v.selected = next
	v.syncSelection()
}

func (v *View) syncSelection() {
	if v.editor == nil {
		return
	}
	id := ""
	if a := v.SelectedAsset(); a != nil {
		id = a.ID
	}
	if err := v.editor.SelectAsset(id); err != nil {
		v.setError(err)
		return
	}
	v.frame = v.editor.Frame()
}

// insert adds an asset of the given kind with a starter payload.
func (v *View) insert(kind domain.AssetKind) tea.Cmd {
	return func() tea.Msg {
		if v.editor == nil {
			return messages.AssetsChanged{Err: ErrNoEditorService}
		}
		if _, err := v.editor.InsertAsset(v.ctx, kind, DefaultPayload(kind)); err != nil {
			return messages.AssetsChanged{Err: err}
		}
		return messages.AssetsChanged{Assets: v.editor.Assets()}
	}
}

// nudge moves the selected asset as one complete drag gesture, so the
// position is committed once at the end.
func (v *View) nudge(dx, dy float64) tea.Cmd {
	asset := v.SelectedAsset()
	if asset == nil || v.editor == nil {
		return nil
	}
	id := asset.ID
	target := domain.Position{X: asset.Position.X + dx, Y: asset.Position.Y + dy}
	return func() tea.Msg {
		if err := v.editor.BeginDrag(id); err != nil {
			return messages.AssetsChanged{Err: err}
		}
		if err := v.editor.DragTo(target); err != nil {
			return messages.AssetsChanged{Err: err}
		}
		if _, err := v.editor.EndDrag(v.ctx); err != nil {
			return messages.AssetsChanged{Err: err}
		}
		return messages.AssetsChanged{Assets: v.editor.Assets()}
	}
}

// remove deletes the selected asset.
func (v *View) remove() tea.Cmd {
	asset := v.SelectedAsset()
	if asset == nil || v.editor == nil {
		return nil
	}
	id := asset.ID
	return func() tea.Msg {
		if err := v.editor.RemoveAsset(v.ctx, id); err != nil {
			return messages.AssetsChanged{Err: err}
		}
		return messages.AssetsChanged{Assets: v.editor.Assets()}
	}
}

// refresh reloads assets and the frame from the editor.
func (v *View) refresh() {
	if v.editor == nil {
		return
	}
	v.assets = v.editor.Assets()
	if v.selected >= len(v.assets) {
		v.selected = len(v.assets) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	v.syncSelection()
}

func (v *View) setError(err error) {
	if err == nil {
		return
	}
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the asset view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Assets"), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.canvas.Render(v.frame, ""), "", v.renderList())

	if v.picker != nil {
		sections = append(sections, "", v.renderPicker())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderList() string {
	if len(v.assets) == 0 {
		return v.styles.Muted.Render("No assets. Press a to insert one.")
	}

	lines := make([]string, 0, len(v.assets)+1)
	lines = append(lines, v.styles.Subtitle.Render(fmt.Sprintf("Assets (%d)", len(v.assets))))
	for i, a := range v.assets {
		line := fmt.Sprintf("%-8s %-10s at %5.1f%%, %5.1f%%", a.Kind, shortID(a.ID), a.Position.X, a.Position.Y)
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+line))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderPicker() string {
	lines := make([]string, 0, len(v.picker.kinds))
	for i, kind := range v.picker.kinds {
		label := fmt.Sprintf("%d %s", i+1, kind)
		if i == v.picker.selected {
			lines = append(lines, v.styles.Selected.Render("> "+label))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+label))
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)

	cols := width - 4
	rows := cols * 9 / 32
	if maxRows := height / 3; rows > maxRows {
		rows = maxRows
		cols = rows * 32 / 9
	}
	v.canvas.SetDimensions(cols, rows)
}

// SelectedAsset returns the selected asset, or nil when there are none.
func (v *View) SelectedAsset() *domain.Asset {
	if v.selected < 0 || v.selected >= len(v.assets) {
		return nil
	}
	return &v.assets[v.selected]
}

// Assets returns the listed assets.
func (v *View) Assets() []domain.Asset {
	return v.assets
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// PickerOpen returns true while the kind picker is shown.
func (v *View) PickerOpen() bool {
	return v.picker != nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// DefaultPayload returns a starter payload for a newly inserted asset.
func DefaultPayload(kind domain.AssetKind) domain.AssetPayload {
	switch kind {
	case domain.AssetChart:
		return &domain.ChartPayload{
			ChartType:  "bar",
			Title:      "Chart",
			Categories: []string{"A", "B", "C"},
			Series:     []domain.ChartSeries{{Name: "Series 1", Values: []float64{1, 2, 3}}},
			WidthPct:   30,
			HeightPct:  30,
		}
	case domain.AssetIcon:
		return &domain.IconPayload{Name: "star", Color: "#F59E0B", SizePt: 24}
	case domain.AssetShape:
		return &domain.ShapePayload{Shape: "rectangle", Fill: "#7C3AED", WidthPct: 20, HeightPct: 10}
	case domain.AssetImage:
		return &domain.ImagePayload{Alt: "Image", WidthPct: 25, HeightPct: 25}
	case domain.AssetTemplate:
		return &domain.TemplatePayload{TemplateID: "quote", Fields: map[string]string{"text": "Quote"}}
	default:
		return nil
	}
}

// quickKind maps the digits 1-5 to asset kinds.
func quickKind(keyStr string) (domain.AssetKind, bool) {
	kinds := domain.AllAssetKinds()
	if len(keyStr) != 1 || keyStr[0] < '1' || int(keyStr[0]-'1') >= len(kinds) {
		return "", false
	}
	return kinds[keyStr[0]-'1'], true
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Package editor provides the slide editing view for the TUI.
package editor

import (
	"context"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/canvas"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Mode is the editor's input mode.
type Mode int

const (
	// ModeBrowse navigates regions.
	ModeBrowse Mode = iota
	// ModeEdit edits the selected region's content.
	ModeEdit
	// ModePrompt collects a generation prompt.
	ModePrompt
)

// View shows the slide map, the region list and the inline editor.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	canvas    *canvas.Canvas
	list      *list.RegionList
	input     *input.ContentInput
	prompt    *input.PromptInput
	statusbar *status.Bar

	editor driving.EditorService
	ctx    context.Context

	frame  *domain.Frame
	mode   Mode
	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new editor view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	editor driving.EditorService,
	validator driving.FitValidator,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		canvas:    canvas.New(s),
		list:      list.NewRegionList(s),
		input:     input.NewContentInput(s, validator),
		prompt:    input.NewPromptInput(s),
		statusbar: status.NewBar(s, km),
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

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	v.refresh()
	return nil
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SlideLoaded:
		v.handleSlideLoaded(msg)
		return v, nil

	case messages.FrameUpdated:
		v.setFrame(msg.Frame)
		return v, nil

	case messages.ContentApplied:
		v.handleContentApplied(msg)
		return v, nil

	case messages.GenerationCompleted:
		v.handleGenerationCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

// handleKeyMsg dispatches keys by mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeEdit:
		return v.handleEditKey(msg)
	case ModePrompt:
		return v.handlePromptKey(msg)
	default:
		return v.handleBrowseKey(msg)
	}
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyEnter {
		return v, v.openEditor()
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.list.MoveUp()
	case "j":
		v.list.MoveDown()
	case "e":
		return v, v.openEditor()
	case "g":
		if v.editor == nil {
			return v, nil
		}
		v.mode = ModePrompt
		v.prompt.Reset()
		v.statusbar.SetBindings(v.keymap.EditingHelp())
		return v, v.prompt.Focus()
	case "d":
		if v.editor != nil {
			on := v.editor.ToggleDebug()
			v.refresh()
			v.statusbar.SetMessage(fmt.Sprintf("Debug grid %s", onOff(on)))
		}
	case "m":
		if v.editor != nil && v.frame != nil {
			visible := !v.frame.MediaVisible
			v.editor.SetMediaVisible(visible)
			v.refresh()
			v.statusbar.SetMessage(fmt.Sprintf("Media %s", onOff(visible)))
		}
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.closeEditor()
		return v, nil
	}

	// Enter commits a scalar edit; list regions need enter for new items.
	commit := msg.Type == tea.KeyCtrlS || (msg.Type == tea.KeyEnter && !v.input.IsList())
	if commit {
		regionID := v.input.RegionID()
		content := v.input.Value()
		v.closeEditor()
		return v, v.applyContent(regionID, content)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // handling only relevant key types
	case tea.KeyEsc:
		v.closePrompt()
		return v, nil
	case tea.KeyEnter:
		prompt := v.prompt.Value()
		if prompt == "" {
			return v, nil
		}
		v.closePrompt()
		v.statusbar.SetState(status.StateGenerating)
		return v, v.generate(prompt)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// openEditor opens the inline editor on the selected text region.
func (v *View) openEditor() tea.Cmd {
	el := v.list.SelectedRegion()
	if el == nil || el.Layout == domain.LayoutNone {
		return nil
	}
	v.mode = ModeEdit
	v.statusbar.SetState(status.StateEditing)
	v.statusbar.SetBindings(nil)
	return v.input.Open(*el)
}

func (v *View) closeEditor() {
	v.input.Close()
	v.mode = ModeBrowse
	v.statusbar.SetState(status.StateReady)
}

func (v *View) closePrompt() {
	v.prompt.Blur()
	v.prompt.Reset()
	v.mode = ModeBrowse
	v.statusbar.SetBindings(nil)
}

// applyContent binds edited content to a region.
func (v *View) applyContent(regionID string, content domain.Content) tea.Cmd {
	return func() tea.Msg {
		if v.editor == nil {
			return messages.ContentApplied{RegionID: regionID, Err: ErrNoEditorService}
		}
		fit, err := v.editor.SetContent(v.ctx, regionID, content)
		return messages.ContentApplied{RegionID: regionID, Fit: fit, Err: err}
	}
}

// generate asks the content generator for a patch.
func (v *View) generate(prompt string) tea.Cmd {
	return func() tea.Msg {
		if v.editor == nil {
			return messages.GenerationCompleted{Err: ErrNoEditorService}
		}
		fits, err := v.editor.Generate(v.ctx, prompt)
		return messages.GenerationCompleted{Fits: fits, Err: err}
	}
}

func (v *View) handleSlideLoaded(msg messages.SlideLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	if v.editor != nil {
		v.editor.Resize(v.viewport())
	}
	v.refresh()
	v.statusbar.SetState(status.StateReady)
}

func (v *View) handleContentApplied(msg messages.ContentApplied) {
	// A persist failure still leaves the edit applied, so refresh first.
	v.refresh()
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fitMessage(msg.RegionID, msg.Fit))
}

func (v *View) handleGenerationCompleted(msg messages.GenerationCompleted) {
	v.refresh()
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)

	over := 0
	for _, fit := range msg.Fits {
		if !fit.Fits {
			over++
		}
	}
	text := fmt.Sprintf("Generated %d regions", len(msg.Fits))
	if over > 0 {
		text += fmt.Sprintf(", %d over budget", over)
	}
	v.statusbar.SetMessage(text)
}

func (v *View) setError(err error) {
	if err == nil {
		return
	}
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refresh pulls the current frame from the editor.
func (v *View) refresh() {
	if v.editor == nil {
		return
	}
	v.setFrame(v.editor.Frame())
}

func (v *View) setFrame(frame *domain.Frame) {
	if frame == nil {
		return
	}
	v.frame = frame
	v.list.SetRegions(frame.Regions)
	v.statusbar.SetSummary(status.Summarise(frame))
	v.sizeCanvas()
}

// View renders the editor view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.renderHeader(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	selected := ""
	if el := v.list.SelectedRegion(); el != nil {
		selected = el.RegionID
	}
	sections = append(sections, v.canvas.Render(v.frame, selected), "", v.list.View())

	switch v.mode {
	case ModeEdit:
		sections = append(sections, "", v.input.View())
	case ModePrompt:
		sections = append(sections, "", v.prompt.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderHeader() string {
	title := "slidefit"
	if v.frame != nil && v.frame.SlideID != "" {
		title += " · " + v.frame.SlideID
	}
	header := v.styles.Title.Render(title)

	var tags []string
	if v.frame != nil {
		if v.frame.Fallback {
			tags = append(tags, "fallback layout")
		}
		if v.frame.DebugVisible {
			tags = append(tags, "debug")
		}
		if v.frame.MediaVisible {
			tags = append(tags, "media")
		}
		if n := len(v.frame.Skipped); n > 0 {
			tags = append(tags, fmt.Sprintf("%d skipped", n))
		}
	}
	sort.Strings(tags)
	for _, t := range tags {
		header += " " + v.styles.Badge.Render(t)
	}
	return header
}

// viewport maps the terminal to overlay pixels. A cell is one pixel wide
// and two pixels tall, which keeps the preview box close to the slide's shape.
func (v *View) viewport() domain.Viewport {
	w := v.width - 4
	h := (v.height / 2) * 2
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	return domain.Viewport{Width: w, Height: h}
}

// sizeCanvas fits the canvas to the frame's preview box.
func (v *View) sizeCanvas() {
	if v.frame == nil || v.frame.PreviewBox.Width <= 0 {
		return
	}
	cols := int(v.frame.PreviewBox.Width)
	rows := int(v.frame.PreviewBox.Height / 2)
	if maxRows := v.height / 3; rows > maxRows && maxRows > 0 {
		cols = cols * maxRows / rows
		rows = maxRows
	}
	v.canvas.SetDimensions(cols, rows)
}

// SetDimensions sets the view dimensions and resizes the frame to match.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)

	if v.editor != nil {
		v.setFrame(v.editor.Resize(v.viewport()))
	}

	_, canvasRows := v.canvas.Dimensions()
	// Header, canvas border, spacing, input and status bar.
	listHeight := height - canvasRows - 12
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
}

// Frame returns the last frame shown.
func (v *View) Frame() *domain.Frame {
	return v.frame
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar, mainly for inspection.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Regions returns the region list.
func (v *View) Regions() *list.RegionList {
	return v.list
}

// fitMessage summarises a region's fit after an edit.
func fitMessage(regionID string, fit domain.FitResult) string {
	if !fit.ShowCounter() {
		return regionID + " updated"
	}
	text := fmt.Sprintf("%s: %d/%d chars, %s", regionID, fit.OccupiedChars, fit.BudgetChars, fit.Classification)
	if fit.OverflowChars > 0 {
		text += fmt.Sprintf(", %d over", fit.OverflowChars)
	}
	return text
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

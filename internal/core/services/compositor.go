package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Default asset footprint, in RelativePercent, when a payload carries no size.
const (
	defaultAssetWidthPct  = 12.0
	defaultAssetHeightPct = 12.0
	iconPtPerPercent      = 4.0
)

// fallbackSlots is the generic proportional layout used without a background
// preview. Regions of the same kind share their slot in equal horizontal bands.
var fallbackSlots = map[domain.RegionKind]domain.Rect{
	domain.RegionTitle:       {X: 5, Y: 4, Width: 90, Height: 14},
	domain.RegionHeading:     {X: 5, Y: 20, Width: 90, Height: 8},
	domain.RegionSubtitle:    {X: 5, Y: 20, Width: 90, Height: 8},
	domain.RegionBody:        {X: 5, Y: 30, Width: 55, Height: 56},
	domain.RegionBullets:     {X: 5, Y: 30, Width: 55, Height: 56},
	domain.RegionImageHolder: {X: 62, Y: 30, Width: 33, Height: 56},
	domain.RegionChartArea:   {X: 62, Y: 30, Width: 33, Height: 56},
	domain.RegionFooter:      {X: 5, Y: 90, Width: 90, Height: 6},
	domain.RegionUnknown:     {X: 5, Y: 30, Width: 90, Height: 56},
}

// Scene is the slide data the compositor draws.
type Scene struct {
	SlideID    string
	SlideSize  domain.SlideSize
	Background string

	// PreviewUnavailable marks an ingestion without a preview image.
	// The compositor renders the fallback layout instead of staying idle.
	PreviewUnavailable bool

	Regions *RegionModel
	Media   []domain.ExtractedMedia
}

// ready reports whether both a background (or an explicit fallback) and a
// region list are present.
func (s *Scene) ready() bool {
	if s == nil || s.Regions == nil {
		return false
	}
	return s.Background != "" || s.PreviewUnavailable
}

func (s *Scene) fallback() bool {
	return s.Background == "" && s.PreviewUnavailable
}

// drag is an asset being dragged. Only the on-screen position changes until release.
type drag struct {
	assetID string
	pos     domain.Position
}

// Compositor assembles the layered overlay stack for one slide view.
// It owns view state only: selection, drag, layer toggles and the viewport.
// Content and assets are passed in on every render so a frame is always a
// pure function of current state.
type Compositor struct {
	validator driving.FitValidator
	scaler    driving.DisplayScaler

	scene        *Scene
	viewport     domain.Viewport
	state        domain.ViewState
	debug        bool
	mediaVisible bool
	selected     string
	drag         *drag

	onState func(domain.ViewState)
}

// NewCompositor creates an idle compositor.
func NewCompositor(validator driving.FitValidator, scaler driving.DisplayScaler) *Compositor {
	return &Compositor{
		validator:    validator,
		scaler:       scaler,
		state:        domain.ViewIdle,
		mediaVisible: true,
	}
}

// OnStateChange registers an observer for state transitions.
func (c *Compositor) OnStateChange(fn func(domain.ViewState)) {
	c.onState = fn
}

// State returns the current view state.
func (c *Compositor) State() domain.ViewState {
	return c.state
}

// Load replaces the scene. View toggles survive; selection and drag do not.
func (c *Compositor) Load(scene *Scene) {
	c.scene = scene
	c.selected = ""
	c.drag = nil
	c.setState(domain.ViewIdle)
}

// SetBackground supplies a preview that arrived after the region list.
func (c *Compositor) SetBackground(ref string) {
	if c.scene == nil {
		return
	}
	c.scene.Background = ref
}

// Viewport returns the current viewport.
func (c *Compositor) Viewport() domain.Viewport {
	return c.viewport
}

// SetViewport records a new viewport. The next Render recomputes every position.
func (c *Compositor) SetViewport(v domain.Viewport) {
	c.viewport = v
	if c.state == domain.ViewInteractive {
		c.setState(domain.ViewRendering)
	}
}

// ToggleDebug flips the debug grid.
func (c *Compositor) ToggleDebug() bool {
	c.debug = !c.debug
	return c.debug
}

// DebugVisible reports whether the debug grid is shown.
func (c *Compositor) DebugVisible() bool {
	return c.debug
}

// SetMediaVisible shows or hides extracted media overlays.
func (c *Compositor) SetMediaVisible(v bool) {
	c.mediaVisible = v
}

// Select makes one asset the only selected asset. Empty clears the selection.
func (c *Compositor) Select(assetID string) {
	c.selected = assetID
}

// Selected returns the selected asset ID.
func (c *Compositor) Selected() string {
	return c.selected
}

// Forget drops selection and drag state for a removed asset.
func (c *Compositor) Forget(assetID string) {
	if c.selected == assetID {
		c.selected = ""
	}
	if c.drag != nil && c.drag.assetID == assetID {
		c.drag = nil
	}
}

// BeginDrag starts dragging an asset from its current position and selects it.
func (c *Compositor) BeginDrag(assetID string, from domain.Position) {
	c.selected = assetID
	c.drag = &drag{assetID: assetID, pos: from}
}

// DragTo moves the dragged asset on screen. Nothing is committed.
func (c *Compositor) DragTo(pos domain.Position) error {
	if c.drag == nil {
		return domain.ErrNoDrag
	}
	c.drag.pos = clampPosition(pos)
	return nil
}

// EndDrag finishes the drag and returns the position to commit.
func (c *Compositor) EndDrag() (string, domain.Position, error) {
	if c.drag == nil {
		return "", domain.Position{}, domain.ErrNoDrag
	}
	d := c.drag
	c.drag = nil
	return d.assetID, d.pos, nil
}

// Dragging returns the asset being dragged, if any.
func (c *Compositor) Dragging() (string, bool) {
	if c.drag == nil {
		return "", false
	}
	return c.drag.assetID, true
}

// Render composes the frame for the current viewport.
// Until the scene is ready and the viewport has a size, the frame is idle and empty.
func (c *Compositor) Render(binding domain.ContentBinding, assets []domain.Asset) *domain.Frame {
	frame := &domain.Frame{
		Viewport:     c.viewport,
		MediaVisible: c.mediaVisible,
		DebugVisible: c.debug,
		Regions:      []domain.RegionElement{},
	}
	if c.scene != nil {
		frame.SlideID = c.scene.SlideID
	}
	if !c.scene.ready() || !c.viewport.IsValid() {
		c.setState(domain.ViewIdle)
		frame.State = domain.ViewIdle
		return frame
	}

	c.setState(domain.ViewRendering)
	defer logger.Timed("compose " + c.scene.SlideID)()

	size := c.scene.SlideSize
	if !size.IsValid() {
		size = domain.DefaultSlideSize
	}
	frame.PreviewBox = domain.FitPreviewBox(c.viewport, size)
	frame.Background = c.scene.Background
	frame.Fallback = c.scene.fallback()

	if frame.Fallback {
		c.composeFallbackRegions(frame, binding)
	} else {
		c.composeRegions(frame, size, binding)
		c.composeMedia(frame, size)
	}
	c.composeAssets(frame, assets)
	if c.debug {
		composeDebug(frame)
	}

	c.setState(domain.ViewInteractive)
	frame.State = domain.ViewInteractive
	return frame
}

func (c *Compositor) composeRegions(frame *domain.Frame, size domain.SlideSize, binding domain.ContentBinding) {
	for _, region := range c.scene.Regions.Regions() {
		if err := region.Validate(); err != nil {
			c.skip(frame, err)
			continue
		}
		pct, err := domain.Convert(*region.Position, domain.SpaceRelativePercent, size)
		if err != nil {
			c.skip(frame, &domain.GeometryError{RegionID: region.ID, Reason: err.Error()})
			continue
		}
		frame.Regions = append(frame.Regions, c.regionElement(region, pct, frame.PreviewBox, binding))
	}
}

func (c *Compositor) composeFallbackRegions(frame *domain.Frame, binding domain.ContentBinding) {
	var regions []domain.Region
	for _, region := range c.scene.Regions.Regions() {
		if err := region.ValidateBudget(); err != nil {
			c.skip(frame, err)
			continue
		}
		regions = append(regions, region)
	}
	counts := make(map[domain.RegionKind]int)
	for _, r := range regions {
		counts[r.Kind]++
	}
	seen := make(map[domain.RegionKind]int)
	for _, region := range regions {
		slot := fallbackSlots[region.Kind]
		n := counts[region.Kind]
		band := slot.Height / float64(n)
		pct := domain.Rect{
			X:      slot.X,
			Y:      slot.Y + band*float64(seen[region.Kind]),
			Width:  slot.Width,
			Height: band,
			Space:  domain.SpaceRelativePercent,
		}
		seen[region.Kind]++

		el := c.regionElement(region, pct, frame.PreviewBox, binding)
		el.Fallback = true
		frame.Regions = append(frame.Regions, el)
	}
}

func (c *Compositor) regionElement(
	region domain.Region, pct domain.Rect, box domain.PixelBox, binding domain.ContentBinding,
) domain.RegionElement {
	content := ForType(region, binding)
	fit := domain.FitResult{Fits: true, Classification: domain.FitOK, Unbounded: true}
	if region.HoldsText() {
		fit = c.validator.Validate(content, region.BudgetChars)
	}
	return domain.RegionElement{
		RegionID:      region.ID,
		Kind:          region.Kind,
		Layout:        region.Layout,
		Percent:       pct,
		Pixels:        domain.PercentToPixels(pct, box),
		Content:       content,
		Fit:           fit,
		Formatting:    region.Formatting,
		DisplayFontPt: c.scaler.ScaledFontSize(region.Formatting.BaseFontSizePt, fit),
	}
}

func (c *Compositor) composeMedia(frame *domain.Frame, size domain.SlideSize) {
	for _, m := range c.scene.Media {
		if !m.Position.HasArea() {
			logger.Debug("media %s skipped: no area", m.ID)
			continue
		}
		pct, err := domain.Convert(m.Position, domain.SpaceRelativePercent, size)
		if err != nil {
			logger.Debug("media %s skipped: %v", m.ID, err)
			continue
		}
		frame.Media = append(frame.Media, domain.MediaElement{
			MediaID:         m.ID,
			Percent:         pct,
			Pixels:          domain.PercentToPixels(pct, frame.PreviewBox),
			Ref:             m.Ref,
			IsLogo:          m.IsLogo,
			HasTransparency: m.HasTransparency,
			HasAnimation:    m.HasAnimation,
		})
	}
}

func (c *Compositor) composeAssets(frame *domain.Frame, assets []domain.Asset) {
	for _, a := range assets {
		render, err := RenderAsset(a.Payload)
		if err != nil {
			logger.Warn("asset %s: %v", a.ID, err)
			continue
		}
		pos := a.Position
		dragging := c.drag != nil && c.drag.assetID == a.ID
		if dragging {
			pos = c.drag.pos
		}
		pct := domain.Rect{X: pos.X, Y: pos.Y, Width: render.WidthPct, Height: render.HeightPct, Space: domain.SpaceRelativePercent}
		frame.Assets = append(frame.Assets, domain.AssetElement{
			AssetID:  a.ID,
			Kind:     a.Kind,
			Position: pos,
			Pixels:   domain.PercentToPixels(pct, frame.PreviewBox),
			Selected: a.ID == c.selected,
			Dragging: dragging,
			Render:   render,
		})
	}
}

func composeDebug(frame *domain.Frame) {
	for _, r := range frame.Regions {
		label := string(r.Kind)
		if r.Fit.ShowCounter() {
			label = fmt.Sprintf("%s %d/%d", r.Kind, r.Fit.OccupiedChars, r.Fit.BudgetChars)
		}
		frame.Debug = append(frame.Debug, domain.DebugElement{
			RegionID: r.RegionID,
			Label:    label,
			Percent:  r.Percent,
			Pixels:   r.Pixels,
		})
	}
}

func (c *Compositor) skip(frame *domain.Frame, err error) {
	var ge *domain.GeometryError
	if !errors.As(err, &ge) {
		ge = &domain.GeometryError{Reason: err.Error()}
	}
	logger.Warn("skipping %v", ge)
	frame.Skipped = append(frame.Skipped, *ge)
}

func (c *Compositor) setState(s domain.ViewState) {
	if c.state == s {
		return
	}
	logger.Debug("view %s -> %s", c.state, s)
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}

// HitTest resolves a pointer position (RelativePercent) against a frame.
// The debug toggle wins, then the topmost asset, then regions.
// Background, media and the debug grid itself never intercept.
func HitTest(frame *domain.Frame, x, y float64) domain.HitTarget {
	if frame == nil || frame.State != domain.ViewInteractive {
		return domain.HitTarget{Kind: domain.HitNone}
	}
	if domain.DebugToggle.Contains(x, y) {
		return domain.HitTarget{Kind: domain.HitDebugToggle}
	}
	for i := len(frame.Assets) - 1; i >= 0; i-- {
		a := frame.Assets[i]
		r := domain.Rect{X: a.Position.X, Y: a.Position.Y, Width: a.Render.WidthPct, Height: a.Render.HeightPct}
		if r.Contains(x, y) {
			return domain.HitTarget{Kind: domain.HitAsset, ID: a.AssetID}
		}
	}
	for i := len(frame.Regions) - 1; i >= 0; i-- {
		if frame.Regions[i].Percent.Contains(x, y) {
			return domain.HitTarget{Kind: domain.HitRegion, ID: frame.Regions[i].RegionID}
		}
	}
	return domain.HitTarget{Kind: domain.HitNone}
}

// assetRenderer resolves each payload kind to its render shape.
type assetRenderer struct {
	out domain.AssetRender
}

// RenderAsset returns the render description of a payload.
func RenderAsset(p domain.AssetPayload) (domain.AssetRender, error) {
	if p == nil {
		return domain.AssetRender{}, fmt.Errorf("%w: missing payload", domain.ErrInvalidInput)
	}
	var r assetRenderer
	if err := p.Accept(&r); err != nil {
		return domain.AssetRender{}, err
	}
	if r.out.WidthPct <= 0 {
		r.out.WidthPct = defaultAssetWidthPct
	}
	if r.out.HeightPct <= 0 {
		r.out.HeightPct = defaultAssetHeightPct
	}
	return r.out, nil
}

func (r *assetRenderer) VisitChart(p *domain.ChartPayload) error {
	label := p.Title
	if label == "" {
		label = strings.TrimSpace(p.ChartType + " chart")
	}
	r.out = domain.AssetRender{Label: label, WidthPct: p.WidthPct, HeightPct: p.HeightPct}
	return nil
}

func (r *assetRenderer) VisitIcon(p *domain.IconPayload) error {
	size := 0.0
	if p.SizePt > 0 {
		size = p.SizePt / iconPtPerPercent
	}
	r.out = domain.AssetRender{Label: orDefault(p.Name, "icon"), WidthPct: size, HeightPct: size, Color: p.Color}
	return nil
}

func (r *assetRenderer) VisitShape(p *domain.ShapePayload) error {
	r.out = domain.AssetRender{Label: orDefault(p.Shape, "shape"), WidthPct: p.WidthPct, HeightPct: p.HeightPct, Color: p.Fill}
	return nil
}

func (r *assetRenderer) VisitImage(p *domain.ImagePayload) error {
	r.out = domain.AssetRender{Label: orDefault(p.Alt, "image"), WidthPct: p.WidthPct, HeightPct: p.HeightPct, Ref: p.Ref}
	return nil
}

func (r *assetRenderer) VisitTemplate(p *domain.TemplatePayload) error {
	label := "template"
	if p.TemplateID != "" {
		label += " " + p.TemplateID
	}
	r.out = domain.AssetRender{Label: label, WidthPct: 30, HeightPct: 20}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

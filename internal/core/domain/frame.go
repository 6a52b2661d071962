package domain

// ViewState is the compositor's per-slide state.
type ViewState string

// View states.
const (
	// ViewIdle waits for both a background preview and a region list.
	ViewIdle ViewState = "idle"

	// ViewRendering computes positions for the current viewport.
	ViewRendering ViewState = "rendering"

	// ViewInteractive accepts pointer and keyboard edits.
	ViewInteractive ViewState = "interactive"
)

// LayerKind identifies one layer of the overlay stack.
type LayerKind string

// Layers, bottom to top.
const (
	LayerBackground LayerKind = "background"
	LayerMedia      LayerKind = "media"
	LayerRegions    LayerKind = "regions"
	LayerAssets     LayerKind = "assets"
	LayerDebug      LayerKind = "debug"
)

// Layer describes a layer's stacking and interaction policy.
type Layer struct {
	Kind        LayerKind `json:"kind"`
	Z           int       `json:"z"`
	Interactive bool      `json:"interactive"`
	Visible     bool      `json:"visible"`
}

// RegionElement is one editable region in the rendered frame.
type RegionElement struct {
	RegionID   string        `json:"region_id"`
	Kind       RegionKind    `json:"kind"`
	Layout     ContentLayout `json:"layout"`
	Percent    Rect          `json:"percent"`
	Pixels     PixelBox      `json:"pixels"`
	Content    Content       `json:"content"`
	Fit        FitResult     `json:"fit"`
	Formatting Formatting    `json:"formatting"`

	// DisplayFontPt is presentation-only; Formatting.BaseFontSizePt is the stored size.
	DisplayFontPt float64 `json:"display_font_pt"`

	// Fallback is set when the position comes from the proportional fallback layout.
	Fallback bool `json:"fallback,omitempty"`
}

// MediaElement is one extracted media overlay in the rendered frame.
type MediaElement struct {
	MediaID         string   `json:"media_id"`
	Percent         Rect     `json:"percent"`
	Pixels          PixelBox `json:"pixels"`
	Ref             string   `json:"ref"`
	IsLogo          bool     `json:"is_logo"`
	HasTransparency bool     `json:"has_transparency"`
	HasAnimation    bool     `json:"has_animation"`
}

// AssetElement is one user-inserted asset in the rendered frame.
type AssetElement struct {
	AssetID  string    `json:"asset_id"`
	Kind     AssetKind `json:"kind"`
	Position Position  `json:"position"`
	Pixels   PixelBox  `json:"pixels"`
	Selected bool      `json:"selected"`
	Dragging bool      `json:"dragging"`

	// Render is the kind-specific render description.
	Render AssetRender `json:"render"`
}

// AssetRender is the render-payload shape derived from an asset's payload.
type AssetRender struct {
	Label     string  `json:"label"`
	WidthPct  float64 `json:"width_pct"`
	HeightPct float64 `json:"height_pct"`
	Color     string  `json:"color,omitempty"`
	Ref       string  `json:"ref,omitempty"`
}

// DebugElement outlines one region on the debug grid.
type DebugElement struct {
	RegionID string   `json:"region_id"`
	Label    string   `json:"label"`
	Percent  Rect     `json:"percent"`
	Pixels   PixelBox `json:"pixels"`
}

// DebugToggle is the only pointer target owned by the debug layer, in RelativePercent.
var DebugToggle = Rect{X: 94, Y: 1, Width: 5, Height: 5, Space: SpaceRelativePercent}

// Frame is the complete overlay stack for one slide and viewport.
type Frame struct {
	SlideID    string    `json:"slide_id"`
	State      ViewState `json:"state"`
	Viewport   Viewport  `json:"viewport"`
	PreviewBox PixelBox  `json:"preview_box"`

	// Background is the preview image reference; empty in fallback mode.
	Background string `json:"background,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`

	Media        []MediaElement  `json:"media,omitempty"`
	MediaVisible bool            `json:"media_visible"`
	Regions      []RegionElement `json:"regions"`
	Assets       []AssetElement  `json:"assets,omitempty"`
	Debug        []DebugElement  `json:"debug,omitempty"`
	DebugVisible bool            `json:"debug_visible"`

	// Skipped lists regions left out because of malformed geometry.
	Skipped []GeometryError `json:"skipped,omitempty"`
}

// Layers returns the layer stack, bottom to top.
func (f *Frame) Layers() []Layer {
	return []Layer{
		{Kind: LayerBackground, Z: 0, Interactive: false, Visible: f.Background != "" || f.Fallback},
		{Kind: LayerMedia, Z: 1, Interactive: false, Visible: f.MediaVisible},
		{Kind: LayerRegions, Z: 2, Interactive: true, Visible: true},
		{Kind: LayerAssets, Z: 3, Interactive: true, Visible: true},
		{Kind: LayerDebug, Z: 4, Interactive: false, Visible: f.DebugVisible},
	}
}

// Region returns the rendered element for a region ID.
func (f *Frame) Region(id string) (RegionElement, bool) {
	for i := range f.Regions {
		if f.Regions[i].RegionID == id {
			return f.Regions[i], true
		}
	}
	return RegionElement{}, false
}

// HitKind identifies what a pointer event landed on.
type HitKind string

// Hit kinds.
const (
	HitNone        HitKind = "none"
	HitDebugToggle HitKind = "debug_toggle"
	HitAsset       HitKind = "asset"
	HitRegion      HitKind = "region"
)

// HitTarget is the result of resolving a pointer event.
type HitTarget struct {
	Kind HitKind `json:"kind"`
	ID   string  `json:"id,omitempty"`
}

package domain

import (
	"math"
	"strings"
)

// RegionKind classifies a detected content region.
type RegionKind string

// Region kinds emitted by the analysis service.
const (
	RegionTitle       RegionKind = "TITLE"
	RegionSubtitle    RegionKind = "SUBTITLE"
	RegionHeading     RegionKind = "HEADING"
	RegionBody        RegionKind = "BODY"
	RegionBullets     RegionKind = "BULLETS"
	RegionFooter      RegionKind = "FOOTER"
	RegionImageHolder RegionKind = "IMAGE_HOLDER"
	RegionChartArea   RegionKind = "CHART_AREA"
	RegionUnknown     RegionKind = "UNKNOWN"
)

// AllRegionKinds returns every known region kind.
func AllRegionKinds() []RegionKind {
	return []RegionKind{
		RegionTitle, RegionSubtitle, RegionHeading, RegionBody, RegionBullets,
		RegionFooter, RegionImageHolder, RegionChartArea, RegionUnknown,
	}
}

// IsValid returns true if the region kind is recognised.
func (k RegionKind) IsValid() bool {
	switch k {
	case RegionTitle, RegionSubtitle, RegionHeading, RegionBody, RegionBullets,
		RegionFooter, RegionImageHolder, RegionChartArea, RegionUnknown:
		return true
	default:
		return false
	}
}

// ParseRegionKind normalises a kind string. Unrecognised values map to UNKNOWN.
func ParseRegionKind(s string) RegionKind {
	k := RegionKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return RegionUnknown
	}
	return k
}

// String returns the string representation.
func (k RegionKind) String() string {
	return string(k)
}

// ContentLayout describes the shape of content a region holds.
type ContentLayout string

// Content layouts.
const (
	// LayoutScalar regions hold a single string.
	LayoutScalar ContentLayout = "scalar"

	// LayoutList regions hold an ordered list rendered as independent lines.
	// Their budget is shared evenly between items.
	LayoutList ContentLayout = "list"

	// LayoutNone regions hold no text (image holders, chart areas).
	LayoutNone ContentLayout = "none"
)

// LayoutForKind returns the content layout assigned to a kind at ingestion.
func LayoutForKind(k RegionKind) ContentLayout {
	switch k {
	case RegionBullets, RegionBody:
		return LayoutList
	case RegionImageHolder, RegionChartArea:
		return LayoutNone
	default:
		return LayoutScalar
	}
}

// Alignment is the horizontal text alignment of a region.
type Alignment string

// Alignments.
const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Formatting is the stored text formatting of a region.
// Export always uses these values, never display-scaled ones.
type Formatting struct {
	FontFamily     string    `json:"font_family"`
	BaseFontSizePt float64   `json:"base_font_size_pt"`
	Color          string    `json:"color"`
	Bold           bool      `json:"bold"`
	Italic         bool      `json:"italic"`
	Alignment      Alignment `json:"alignment"`
}

// Region is a detected content area on a slide.
// Geometry and formatting are fixed at ingestion; only the bound content changes.
type Region struct {
	// ID is unique within a slide.
	ID string `json:"id"`

	// Kind is the detected region type.
	Kind RegionKind `json:"kind"`

	// Layout is derived from Kind when the region is ingested.
	Layout ContentLayout `json:"layout"`

	// Position is stored in the space it arrived in.
	Position *Rect `json:"position,omitempty"`

	// Formatting is the region's stored text formatting.
	Formatting Formatting `json:"formatting"`

	// BudgetChars is the maximum character count; 0 means unbounded.
	BudgetChars int `json:"budget_chars"`
}

// IsList returns true if the region's budget is shared between list items.
func (r Region) IsList() bool {
	return r.Layout == LayoutList
}

// HoldsText returns true if the region accepts text content.
func (r Region) HoldsText() bool {
	return r.Layout != LayoutNone
}

// Validate checks the region's geometry and budget invariants.
func (r Region) Validate() error {
	switch {
	case r.Position == nil:
		return &GeometryError{RegionID: r.ID, Reason: "missing position"}
	case !r.Position.Space.IsValid():
		return &GeometryError{RegionID: r.ID, Reason: "unknown coordinate space " + string(r.Position.Space)}
	case !r.Position.HasArea():
		return &GeometryError{RegionID: r.ID, Reason: "non-positive width or height"}
	case math.IsNaN(r.Position.X) || math.IsNaN(r.Position.Y):
		return &GeometryError{RegionID: r.ID, Reason: "position is not a number"}
	default:
		return r.ValidateBudget()
	}
}

// ValidateBudget checks the budget invariant alone. The fallback layout uses it
// because it ignores detected geometry.
func (r Region) ValidateBudget() error {
	if r.BudgetChars < 0 {
		return &GeometryError{RegionID: r.ID, Reason: "negative character budget"}
	}
	return nil
}

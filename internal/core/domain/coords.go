package domain

import (
	"fmt"
	"math"
)

// EMU (English Metric Units) are the document-native Absolute units.
const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700

	// normalizedScale is the denominator of the detection service's coordinates.
	normalizedScale = 1000

	// percentScale is the denominator of on-screen coordinates.
	percentScale = 100
)

// Space identifies the coordinate space a rectangle is expressed in.
type Space string

// Supported coordinate spaces.
const (
	// SpaceAbsolute is document-native EMU, origin top-left of the slide.
	SpaceAbsolute Space = "absolute"

	// SpaceNormalized1000 expresses positions as 0-1000 proportions of the slide.
	SpaceNormalized1000 Space = "normalized1000"

	// SpaceRelativePercent expresses positions as 0-100% of the rendered preview box.
	SpaceRelativePercent Space = "relative_percent"
)

// IsValid returns true if the space is recognised.
func (s Space) IsValid() bool {
	switch s {
	case SpaceAbsolute, SpaceNormalized1000, SpaceRelativePercent:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Space) String() string {
	return string(s)
}

// SlideSize is the native slide size in EMU.
type SlideSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSlideSize is a 13.333in x 7.5in (16:9) slide.
var DefaultSlideSize = SlideSize{Width: 12192000, Height: 6858000}

// IsValid returns true if both dimensions are positive.
func (s SlideSize) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// AspectRatio returns width divided by height, or 0 for an invalid size.
func (s SlideSize) AspectRatio() float64 {
	if !s.IsValid() {
		return 0
	}
	return s.Width / s.Height
}

// Rect is a rectangle tagged with the space it is expressed in.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Space  Space   `json:"space"`
}

// HasArea returns true if width and height are both positive and finite.
func (r Rect) HasArea() bool {
	return r.Width > 0 && r.Height > 0 &&
		!math.IsInf(r.Width, 0) && !math.IsInf(r.Height, 0)
}

// Contains reports whether the point lies inside the rectangle (edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Convert maps a rectangle into another coordinate space.
// The slide size is only consulted for directions that cross Absolute space.
func Convert(r Rect, to Space, slide SlideSize) (Rect, error) {
	if !r.Space.IsValid() {
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownSpace, r.Space)
	}
	if !to.IsValid() {
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownSpace, to)
	}
	if r.Space == to {
		return r, nil
	}

	// Everything passes through Normalized1000: it is the only space
	// reachable from both of the others without extra context.
	n, err := toNormalized(r, slide)
	if err != nil {
		return Rect{}, err
	}
	return fromNormalized(n, to, slide)
}

func toNormalized(r Rect, slide SlideSize) (Rect, error) {
	switch r.Space {
	case SpaceNormalized1000:
		return r, nil
	case SpaceRelativePercent:
		return scaleRect(r, normalizedScale/percentScale, normalizedScale/percentScale, SpaceNormalized1000), nil
	case SpaceAbsolute:
		if !slide.IsValid() {
			return Rect{}, ErrInvalidSlideSize
		}
		return scaleRect(r, normalizedScale/slide.Width, normalizedScale/slide.Height, SpaceNormalized1000), nil
	default:
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownSpace, r.Space)
	}
}

func fromNormalized(n Rect, to Space, slide SlideSize) (Rect, error) {
	switch to {
	case SpaceNormalized1000:
		return n, nil
	case SpaceRelativePercent:
		return scaleRect(n, float64(percentScale)/normalizedScale, float64(percentScale)/normalizedScale, SpaceRelativePercent), nil
	case SpaceAbsolute:
		if !slide.IsValid() {
			return Rect{}, ErrInvalidSlideSize
		}
		return scaleRect(n, slide.Width/normalizedScale, slide.Height/normalizedScale, SpaceAbsolute), nil
	default:
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownSpace, to)
	}
}

func scaleRect(r Rect, sx, sy float64, space Space) Rect {
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
		Space:  space,
	}
}

// Viewport is the pixel box available to render a slide preview.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsValid returns true if both dimensions are positive.
func (v Viewport) IsValid() bool {
	return v.Width > 0 && v.Height > 0
}

// PixelBox is a rectangle in viewport pixels.
type PixelBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitPreviewBox returns the largest box with the slide's aspect ratio that fits
// inside the viewport, centred. RelativePercent positions are only meaningful
// relative to this box, not to the raw viewport.
func FitPreviewBox(v Viewport, slide SlideSize) PixelBox {
	if !v.IsValid() {
		return PixelBox{}
	}
	vw, vh := float64(v.Width), float64(v.Height)
	ratio := slide.AspectRatio()
	if ratio == 0 {
		return PixelBox{Width: vw, Height: vh}
	}

	w, h := vw, vw/ratio
	if h > vh {
		h = vh
		w = vh * ratio
	}
	return PixelBox{
		X:      (vw - w) / 2,
		Y:      (vh - h) / 2,
		Width:  w,
		Height: h,
	}
}

// PercentToPixels maps a RelativePercent rectangle into a pixel box.
// Rectangles in other spaces are returned as an empty box.
func PercentToPixels(r Rect, box PixelBox) PixelBox {
	if r.Space != SpaceRelativePercent {
		return PixelBox{}
	}
	return PixelBox{
		X:      box.X + r.X*box.Width/percentScale,
		Y:      box.Y + r.Y*box.Height/percentScale,
		Width:  r.Width * box.Width / percentScale,
		Height: r.Height * box.Height / percentScale,
	}
}

// PixelsToPercent maps a viewport pixel coordinate to RelativePercent.
// The second return value is false when the point lies outside the box.
func PixelsToPercent(x, y float64, box PixelBox) (float64, float64, bool) {
	if box.Width <= 0 || box.Height <= 0 {
		return 0, 0, false
	}
	px := (x - box.X) * percentScale / box.Width
	py := (y - box.Y) * percentScale / box.Height
	inside := px >= 0 && px <= percentScale && py >= 0 && py <= percentScale
	return px, py, inside
}

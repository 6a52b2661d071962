package domain

import (
	"strconv"
	"time"
)

// SlideRef identifies a slide within an uploaded presentation.
type SlideRef struct {
	// FileHash is the content hash of the uploaded presentation.
	FileHash string `json:"file_hash"`

	// Index is the zero-based slide number.
	Index int `json:"index"`
}

// Key returns a stable cache key for the slide.
func (r SlideRef) Key() string {
	return r.FileHash + "#" + strconv.Itoa(r.Index)
}

// ExtractedMedia is a decorative raster element lifted from the original slide.
// It is read-only: only displayed and toggled visible or hidden.
type ExtractedMedia struct {
	ID              string `json:"id"`
	Position        Rect   `json:"position"`
	IsLogo          bool   `json:"is_logo"`
	HasTransparency bool   `json:"has_transparency"`
	HasAnimation    bool   `json:"has_animation"`

	// Ref points at the raster payload (path or URL).
	Ref string `json:"ref"`
}

// AnalysisResult is the analysis collaborator's description of one slide.
type AnalysisResult struct {
	SlideID     string           `json:"slide_id"`
	Ref         SlideRef         `json:"ref"`
	SlideWidth  float64          `json:"slide_width"`
	SlideHeight float64          `json:"slide_height"`
	Regions     []Region         `json:"regions"`
	Media       []ExtractedMedia `json:"media,omitempty"`

	// PreviewImageRef is the rasterised slide preview; empty when unavailable.
	PreviewImageRef string `json:"preview_image_ref,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at,omitempty"`
}

// HasSlideSize reports whether the analysis carried usable slide dimensions.
func (a *AnalysisResult) HasSlideSize() bool {
	return SlideSize{Width: a.SlideWidth, Height: a.SlideHeight}.IsValid()
}

// NeedsSlideSize reports whether a region is placed in Absolute space, which
// cannot be converted without the slide dimensions.
func (a *AnalysisResult) NeedsSlideSize() bool {
	for _, r := range a.Regions {
		if r.Position != nil && r.Position.Space == SpaceAbsolute {
			return true
		}
	}
	for _, m := range a.Media {
		if m.Position.Space == SpaceAbsolute {
			return true
		}
	}
	return false
}

// SlideSize returns the slide size, falling back to the default 16:9 size.
func (a *AnalysisResult) SlideSize() SlideSize {
	s := SlideSize{Width: a.SlideWidth, Height: a.SlideHeight}
	if !s.IsValid() {
		return DefaultSlideSize
	}
	return s
}

// ExportRegion is a region with its bound content in stored form.
type ExportRegion struct {
	ID         string     `json:"id"`
	Kind       RegionKind `json:"kind"`
	Position   Rect       `json:"position"`
	Formatting Formatting `json:"formatting"`
	Content    Content    `json:"content"`
}

// ExportBundle is handed to the export collaborator.
// Formatting is always the stored formatting; display scaling never leaks here.
type ExportBundle struct {
	SlideID    string         `json:"slide_id"`
	SlideSize  SlideSize      `json:"slide_size"`
	Regions    []ExportRegion `json:"regions"`
	Assets     []Asset        `json:"assets"`
	ExportedAt time.Time      `json:"exported_at"`
}

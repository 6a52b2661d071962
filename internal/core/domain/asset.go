package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AssetKind identifies a user-inserted asset type.
type AssetKind string

// Asset kinds.
const (
	AssetChart    AssetKind = "chart"
	AssetIcon     AssetKind = "icon"
	AssetShape    AssetKind = "shape"
	AssetImage    AssetKind = "image"
	AssetTemplate AssetKind = "template"
)

// IsValid returns true if the asset kind is recognised.
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetChart, AssetIcon, AssetShape, AssetImage, AssetTemplate:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AssetKind) String() string {
	return string(k)
}

// AllAssetKinds returns every known asset kind.
func AllAssetKinds() []AssetKind {
	return []AssetKind{AssetChart, AssetIcon, AssetShape, AssetImage, AssetTemplate}
}

// Position is a point in RelativePercent space relative to the slide canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AssetPayload is the kind-specific data of an asset.
// The set of implementations is closed: each one is handled by AssetVisitor,
// so adding a kind means adding a visitor method, which every visitor must implement.
type AssetPayload interface {
	Kind() AssetKind
	Accept(v AssetVisitor) error
}

// AssetVisitor resolves a payload to its concrete type.
type AssetVisitor interface {
	VisitChart(p *ChartPayload) error
	VisitIcon(p *IconPayload) error
	VisitShape(p *ShapePayload) error
	VisitImage(p *ImagePayload) error
	VisitTemplate(p *TemplatePayload) error
}

// ChartSeries is one data series of a chart.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartPayload is a chart asset.
type ChartPayload struct {
	ChartType  string        `json:"chart_type"`
	Title      string        `json:"title,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	WidthPct   float64       `json:"width_pct,omitempty"`
	HeightPct  float64       `json:"height_pct,omitempty"`
}

// IconPayload is an icon asset.
type IconPayload struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	SizePt float64 `json:"size_pt,omitempty"`
}

// ShapePayload is a vector shape asset.
type ShapePayload struct {
	Shape     string  `json:"shape"`
	Fill      string  `json:"fill,omitempty"`
	Stroke    string  `json:"stroke,omitempty"`
	WidthPct  float64 `json:"width_pct,omitempty"`
	HeightPct float64 `json:"height_pct,omitempty"`
}

// ImagePayload is a raster image asset.
type ImagePayload struct {
	Ref       string  `json:"ref"`
	Alt       string  `json:"alt,omitempty"`
	WidthPct  float64 `json:"width_pct,omitempty"`
	HeightPct float64 `json:"height_pct,omitempty"`
}

// TemplatePayload is a pre-designed content block.
type TemplatePayload struct {
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Kind implements AssetPayload.
func (p *ChartPayload) Kind() AssetKind { return AssetChart }

// Kind implements AssetPayload.
func (p *IconPayload) Kind() AssetKind { return AssetIcon }

// Kind implements AssetPayload.
func (p *ShapePayload) Kind() AssetKind { return AssetShape }

// Kind implements AssetPayload.
func (p *ImagePayload) Kind() AssetKind { return AssetImage }

// Kind implements AssetPayload.
func (p *TemplatePayload) Kind() AssetKind { return AssetTemplate }

// Accept implements AssetPayload.
func (p *ChartPayload) Accept(v AssetVisitor) error { return v.VisitChart(p) }

// Accept implements AssetPayload.
func (p *IconPayload) Accept(v AssetVisitor) error { return v.VisitIcon(p) }

// Accept implements AssetPayload.
func (p *ShapePayload) Accept(v AssetVisitor) error { return v.VisitShape(p) }

// Accept implements AssetPayload.
func (p *ImagePayload) Accept(v AssetVisitor) error { return v.VisitImage(p) }

// Accept implements AssetPayload.
func (p *TemplatePayload) Accept(v AssetVisitor) error { return v.VisitTemplate(p) }

// NewPayload returns an empty payload for a kind.
func NewPayload(kind AssetKind) (AssetPayload, error) {
	switch kind {
	case AssetChart:
		return &ChartPayload{}, nil
	case AssetIcon:
		return &IconPayload{}, nil
	case AssetShape:
		return &ShapePayload{}, nil
	case AssetImage:
		return &ImagePayload{}, nil
	case AssetTemplate:
		return &TemplatePayload{}, nil
	default:
		return nil, fmt.Errorf("%w: asset kind %q", ErrUnsupportedType, kind)
	}
}

// DecodePayload decodes kind-specific JSON into a payload.
func DecodePayload(kind AssetKind, data []byte) (AssetPayload, error) {
	p, err := NewPayload(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidInput, kind, err)
	}
	return p, nil
}

// Asset is a user-inserted graphical element, independent of detected regions.
type Asset struct {
	ID        string       `json:"id"`
	SlideID   string       `json:"slide_id"`
	Kind      AssetKind    `json:"kind"`
	Position  Position     `json:"position"`
	Payload   AssetPayload `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type assetJSON struct {
	ID        string          `json:"id"`
	SlideID   string          `json:"slide_id"`
	Kind      AssetKind       `json:"kind"`
	Position  Position        `json:"position"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarshalJSON includes the payload under the asset's kind.
func (a Asset) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if a.Payload != nil {
		data, err := json.Marshal(a.Payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(assetJSON{
		ID: a.ID, SlideID: a.SlideID, Kind: a.Kind, Position: a.Position,
		Payload: raw, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	})
}

// UnmarshalJSON decodes the payload according to the asset's kind.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var aj assetJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	payload, err := DecodePayload(aj.Kind, aj.Payload)
	if err != nil {
		return err
	}
	*a = Asset{
		ID: aj.ID, SlideID: aj.SlideID, Kind: aj.Kind, Position: aj.Position,
		Payload: payload, CreatedAt: aj.CreatedAt, UpdatedAt: aj.UpdatedAt,
	}
	return nil
}

// Package raster draws composed frames to PNG for debug previews.
//
// The renderer mirrors the overlay stack: letterbox, background preview,
// media outlines, regions tinted by fit, assets and the debug grid.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // preview decoders
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // preview decoder

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// Ensure Renderer implements the interface.
var _ driven.FrameRenderer = (*Renderer)(nil)

// Palette used for the overlay.
const (
	letterboxHex = "#1e1e24"
	canvasHex    = "#ffffff"
	okHex        = "#2e7d32"
	warningHex   = "#f9a825"
	errorHex     = "#c62828"
	neutralHex   = "#607d8b"
	assetHex     = "#1565c0"
	selectedHex  = "#ff6f00"
	debugHex     = "#8e24aa"
	labelHex     = "#212121"

	tintAmount  = 0.85
	labelMargin = 3
)

// Renderer rasterises frames. Background references are read as local image files.
type Renderer struct {
	loadImage func(ref string) (image.Image, error)
}

// NewRenderer creates a renderer that loads previews from disk.
func NewRenderer() *Renderer {
	return &Renderer{loadImage: loadFile}
}

// Render writes a PNG of the frame sized to its viewport.
func (r *Renderer) Render(ctx context.Context, frame *domain.Frame, w io.Writer) error {
	if frame == nil || !frame.Viewport.IsValid() {
		return fmt.Errorf("%w: frame has no viewport", domain.ErrViewportUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	defer logger.Timed("rasterise " + frame.SlideID)()

	img := image.NewRGBA(image.Rect(0, 0, frame.Viewport.Width, frame.Viewport.Height))
	fill(img, img.Bounds(), hex(letterboxHex))

	box := toRect(frame.PreviewBox)
	fill(img, box, hex(canvasHex))
	r.drawBackground(img, frame.Background, box)

	if frame.MediaVisible {
		for _, m := range frame.Media {
			stroke(img, toRect(m.Pixels), hex(neutralHex), 1)
		}
	}
	for _, el := range frame.Regions {
		drawRegion(img, el)
	}
	for _, a := range frame.Assets {
		drawAsset(img, a)
	}
	if frame.DebugVisible {
		for _, d := range frame.Debug {
			stroke(img, toRect(d.Pixels), hex(debugHex), 1)
			label(img, toRect(d.Pixels), d.Label, hex(debugHex))
		}
	}
	if frame.State == domain.ViewInteractive {
		toggle := toRect(domain.PercentToPixels(domain.DebugToggle, frame.PreviewBox))
		fill(img, toggle, tint(hex(debugHex), frame.DebugVisible))
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Renderer) drawBackground(img draw.Image, ref string, box image.Rectangle) {
	if ref == "" || box.Empty() || r.loadImage == nil {
		return
	}
	src, err := r.loadImage(ref)
	if err != nil {
		logger.Warn("preview %s: %v", ref, err)
		return
	}
	draw.CatmullRom.Scale(img, box, src, src.Bounds(), draw.Src, nil)
}

func drawRegion(img draw.Image, el domain.RegionElement) {
	rect := toRect(el.Pixels)
	c := hex(neutralHex)
	if el.Layout != domain.LayoutNone {
		c = classColor(el.Fit.Classification)
	}
	fillAlpha(img, rect, c, 0x30)
	stroke(img, rect, c, 2)

	text := el.Content.String()
	if text == "" {
		text = string(el.Kind)
	}
	label(img, rect, text, hex(labelHex))
}

func drawAsset(img draw.Image, a domain.AssetElement) {
	rect := toRect(a.Pixels)
	c := hex(assetHex)
	if a.Render.Color != "" {
		if parsed, err := colorful.Hex(a.Render.Color); err == nil {
			c = parsed
		}
	}
	fillAlpha(img, rect, c, 0x90)
	if a.Selected || a.Dragging {
		stroke(img, rect, hex(selectedHex), 2)
	}
	label(img, rect, a.Render.Label, hex(labelHex))
}

func classColor(c domain.Classification) colorful.Color {
	switch c {
	case domain.FitError:
		return hex(errorHex)
	case domain.FitWarning:
		return hex(warningHex)
	default:
		return hex(okHex)
	}
}

// tint lightens a colour when a toggle is off.
func tint(c colorful.Color, on bool) colorful.Color {
	if on {
		return c
	}
	return c.BlendLab(hex(canvasHex), tintAmount).Clamped()
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func fillAlpha(img draw.Image, r image.Rectangle, c colorful.Color, alpha uint8) {
	cr, cg, cb := c.RGB255()
	draw.Draw(img, r, image.NewUniform(color.NRGBA{R: cr, G: cg, B: cb, A: alpha}), image.Point{}, draw.Over)
}

func stroke(img draw.Image, r image.Rectangle, c color.Color, width int) {
	if r.Empty() {
		return
	}
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// label draws the first line of text inside r, truncated to fit.
func label(img draw.Image, r image.Rectangle, text string, c color.Color) {
	face := basicfont.Face7x13
	if r.Dy() < face.Height+labelMargin || text == "" {
		return
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	maxWidth := fixed.I(r.Dx() - 2*labelMargin)
	for len(runes) > 0 && font.MeasureString(face, string(runes)) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	text = string(runes)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(r.Min.X+labelMargin, r.Min.Y+labelMargin+face.Ascent),
	}
	d.DrawString(text)
}

func toRect(b domain.PixelBox) image.Rectangle {
	return image.Rect(
		int(math.Round(b.X)),
		int(math.Round(b.Y)),
		int(math.Round(b.X+b.Width)),
		int(math.Round(b.Y+b.Height)),
	)
}

func loadFile(ref string) (image.Image, error) {
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return img, nil
}

// Package canvas draws a composed frame as a character map.
package canvas

import (
	"math"
	"strings"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// Glyphs used on the map.
const (
	glyphEmpty    = ' '
	glyphCorner   = '+'
	glyphHoriz    = '-'
	glyphVert     = '|'
	glyphSelected = '#'
	glyphMedia    = '~'
	glyphAsset    = '@'
	glyphActive   = '*'
)

// Canvas renders regions, media and assets onto a grid of cells.
// Positions come from the frame's RelativePercent rectangles, so the map
// always has the slide's proportions regardless of the terminal size.
type Canvas struct {
	styles *styles.Styles
	width  int
	height int
}

// New creates a canvas with a default size.
func New(s *styles.Styles) *Canvas {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Canvas{styles: s, width: 48, height: 14}
}

// SetDimensions sets the number of columns and rows, excluding the border.
func (c *Canvas) SetDimensions(width, height int) {
	if width < 8 {
		width = 8
	}
	if height < 4 {
		height = 4
	}
	c.width = width
	c.height = height
}

// Dimensions returns the number of columns and rows.
func (c *Canvas) Dimensions() (int, int) {
	return c.width, c.height
}

// Render draws the frame. selectedRegion is drawn with a heavier border.
// With the debug grid visible, regions are labelled by ID instead of kind.
func (c *Canvas) Render(frame *domain.Frame, selectedRegion string) string {
	return c.styles.Canvas.Render(c.Plain(frame, selectedRegion))
}

// Plain draws the frame without styling.
func (c *Canvas) Plain(frame *domain.Frame, selectedRegion string) string {
	grid := make([][]rune, c.height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(glyphEmpty), c.width))
	}
	if frame == nil {
		return join(grid)
	}

	if frame.MediaVisible {
		for _, m := range frame.Media {
			c.box(grid, m.Percent, glyphMedia, glyphMedia, glyphMedia)
		}
	}
	for i := range frame.Regions {
		el := &frame.Regions[i]
		if el.RegionID == selectedRegion {
			c.box(grid, el.Percent, glyphSelected, glyphSelected, glyphSelected)
		} else {
			c.box(grid, el.Percent, glyphCorner, glyphHoriz, glyphVert)
		}
		text := el.Kind.String()
		if frame.DebugVisible {
			text = el.RegionID
		}
		c.label(grid, el.Percent, text)
	}
	for _, a := range frame.Assets {
		g := glyphAsset
		if a.Selected || a.Dragging {
			g = glyphActive
		}
		x, y := c.cell(a.Position.X, a.Position.Y)
		grid[y][x] = g
	}
	return join(grid)
}

// cell maps a RelativePercent point to a grid cell, clamped to the grid.
func (c *Canvas) cell(px, py float64) (int, int) {
	x := int(math.Floor(px / 100 * float64(c.width)))
	y := int(math.Floor(py / 100 * float64(c.height)))
	return clampInt(x, 0, c.width-1), clampInt(y, 0, c.height-1)
}

// bounds returns the inclusive cell bounds of a rectangle.
func (c *Canvas) bounds(r domain.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = c.cell(r.X, r.Y)
	x1, y1 = c.cell(r.X+r.Width, r.Y+r.Height)
	if x1 > x0 && r.X+r.Width < 100 {
		x1--
	}
	if y1 > y0 && r.Y+r.Height < 100 {
		y1--
	}
	return x0, y0, x1, y1
}

func (c *Canvas) box(grid [][]rune, r domain.Rect, corner, horiz, vert rune) {
	x0, y0, x1, y1 := c.bounds(r)
	for x := x0; x <= x1; x++ {
		grid[y0][x] = horiz
		grid[y1][x] = horiz
	}
	for y := y0; y <= y1; y++ {
		grid[y][x0] = vert
		grid[y][x1] = vert
	}
	grid[y0][x0], grid[y0][x1] = corner, corner
	grid[y1][x0], grid[y1][x1] = corner, corner
}

// label writes text inside a box's top-left corner when it fits.
func (c *Canvas) label(grid [][]rune, r domain.Rect, text string) {
	x0, y0, x1, y1 := c.bounds(r)
	inner := x1 - x0 - 1
	if inner < 1 || y1-y0 < 2 {
		return
	}
	runes := []rune(text)
	if len(runes) > inner {
		runes = runes[:inner]
	}
	copy(grid[y0+1][x0+1:], runes)
}

func join(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

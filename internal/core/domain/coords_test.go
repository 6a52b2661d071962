package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_IsValid(t *testing.T) {
	assert.True(t, SpaceAbsolute.IsValid())
	assert.True(t, SpaceNormalized1000.IsValid())
	assert.True(t, SpaceRelativePercent.IsValid())
	assert.False(t, Space("").IsValid())
	assert.False(t, Space("pixels").IsValid())
}

func TestConvert_AbsoluteToNormalized(t *testing.T) {
	slide := SlideSize{Width: 9144000, Height: 6858000}
	r := Rect{X: 914400, Y: 685800, Width: 4572000, Height: 3429000, Space: SpaceAbsolute}

	got, err := Convert(r, SpaceNormalized1000, slide)
	require.NoError(t, err)

	assert.Equal(t, SpaceNormalized1000, got.Space)
	assert.InDelta(t, 100, got.X, 1e-9)
	assert.InDelta(t, 100, got.Y, 1e-9)
	assert.InDelta(t, 500, got.Width, 1e-9)
	assert.InDelta(t, 500, got.Height, 1e-9)
}

func TestConvert_NormalizedToPercent(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 200, Height: 100, Space: SpaceNormalized1000}

	// No slide size is needed for this direction.
	got, err := Convert(r, SpaceRelativePercent, SlideSize{})
	require.NoError(t, err)

	assert.Equal(t, Rect{X: 10, Y: 10, Width: 20, Height: 10, Space: SpaceRelativePercent}, got)
}

func TestConvert_AbsoluteToPercent(t *testing.T) {
	slide := DefaultSlideSize
	r := Rect{X: slide.Width / 4, Y: slide.Height / 2, Width: slide.Width / 2, Height: slide.Height / 4, Space: SpaceAbsolute}

	got, err := Convert(r, SpaceRelativePercent, slide)
	require.NoError(t, err)

	assert.InDelta(t, 25, got.X, 1e-9)
	assert.InDelta(t, 50, got.Y, 1e-9)
	assert.InDelta(t, 50, got.Width, 1e-9)
	assert.InDelta(t, 25, got.Height, 1e-9)
}

func TestConvert_SameSpaceIsIdentity(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4, Space: SpaceAbsolute}
	got, err := Convert(r, SpaceAbsolute, SlideSize{})
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestConvert_Errors(t *testing.T) {
	t.Run("absolute needs slide size", func(t *testing.T) {
		r := Rect{Width: 10, Height: 10, Space: SpaceAbsolute}
		_, err := Convert(r, SpaceNormalized1000, SlideSize{})
		assert.ErrorIs(t, err, ErrInvalidSlideSize)
	})

	t.Run("into absolute needs slide size", func(t *testing.T) {
		r := Rect{Width: 10, Height: 10, Space: SpaceRelativePercent}
		_, err := Convert(r, SpaceAbsolute, SlideSize{Width: 100})
		assert.ErrorIs(t, err, ErrInvalidSlideSize)
	})

	t.Run("unknown source space", func(t *testing.T) {
		_, err := Convert(Rect{Width: 1, Height: 1}, SpaceRelativePercent, DefaultSlideSize)
		assert.ErrorIs(t, err, ErrUnknownSpace)
	})

	t.Run("unknown target space", func(t *testing.T) {
		r := Rect{Width: 1, Height: 1, Space: SpaceAbsolute}
		_, err := Convert(r, Space("inches"), DefaultSlideSize)
		assert.ErrorIs(t, err, ErrUnknownSpace)
	})
}

func TestConvert_RoundTrip(t *testing.T) {
	slides := []SlideSize{
		DefaultSlideSize,
		{Width: 9144000, Height: 6858000},
		{Width: 7772400, Height: 10058400},
		{Width: 1, Height: 3},
	}
	rects := []Rect{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 123456, Y: 654321, Width: 2000000, Height: 777777},
		{X: 914400, Y: 12700, Width: 12700, Height: 914400},
		{X: 3.5, Y: 0.25, Width: 0.001, Height: 42},
	}

	within := func(t *testing.T, want, got float64) {
		t.Helper()
		if want == 0 {
			assert.InDelta(t, 0, got, 1e-9)
			return
		}
		assert.LessOrEqual(t, math.Abs(got-want)/math.Abs(want), 0.001)
	}

	for _, slide := range slides {
		for _, r := range rects {
			r.Space = SpaceAbsolute
			n, err := Convert(r, SpaceNormalized1000, slide)
			require.NoError(t, err)
			back, err := Convert(n, SpaceAbsolute, slide)
			require.NoError(t, err)

			assert.Equal(t, SpaceAbsolute, back.Space)
			within(t, r.X, back.X)
			within(t, r.Y, back.Y)
			within(t, r.Width, back.Width)
			within(t, r.Height, back.Height)
		}
	}
}

func TestFitPreviewBox(t *testing.T) {
	slide := DefaultSlideSize // 16:9

	t.Run("wide viewport letterboxes horizontally", func(t *testing.T) {
		box := FitPreviewBox(Viewport{Width: 2000, Height: 900}, slide)
		assert.InDelta(t, 900, box.Height, 1e-6)
		assert.InDelta(t, 1600, box.Width, 1e-6)
		assert.InDelta(t, 200, box.X, 1e-6)
		assert.InDelta(t, 0, box.Y, 1e-6)
	})

	t.Run("tall viewport letterboxes vertically", func(t *testing.T) {
		box := FitPreviewBox(Viewport{Width: 1600, Height: 1600}, slide)
		assert.InDelta(t, 1600, box.Width, 1e-6)
		assert.InDelta(t, 900, box.Height, 1e-6)
		assert.InDelta(t, 350, box.Y, 1e-6)
	})

	t.Run("invalid viewport", func(t *testing.T) {
		assert.Equal(t, PixelBox{}, FitPreviewBox(Viewport{}, slide))
	})
}

func TestPercentToPixels(t *testing.T) {
	box := PixelBox{X: 100, Y: 50, Width: 800, Height: 450}
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10, Space: SpaceRelativePercent}

	got := PercentToPixels(r, box)
	assert.InDelta(t, 180, got.X, 1e-9)
	assert.InDelta(t, 95, got.Y, 1e-9)
	assert.InDelta(t, 160, got.Width, 1e-9)
	assert.InDelta(t, 45, got.Height, 1e-9)

	assert.Equal(t, PixelBox{}, PercentToPixels(Rect{Width: 1, Height: 1, Space: SpaceAbsolute}, box))
}

func TestPixelsToPercent(t *testing.T) {
	box := PixelBox{X: 100, Y: 50, Width: 800, Height: 450}

	x, y, inside := PixelsToPercent(180, 95, box)
	assert.True(t, inside)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)

	_, _, inside = PixelsToPercent(10, 10, box)
	assert.False(t, inside)

	_, _, inside = PixelsToPercent(10, 10, PixelBox{})
	assert.False(t, inside)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(30, 20))
	assert.False(t, r.Contains(31, 15))
}

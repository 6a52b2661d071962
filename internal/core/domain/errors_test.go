package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrUnknownSpace", ErrUnknownSpace},
		{"ErrInvalidSlideSize", ErrInvalidSlideSize},
		{"ErrMalformedGeometry", ErrMalformedGeometry},
		{"ErrViewportUnavailable", ErrViewportUnavailable},
		{"ErrAnalysisUnavailable", ErrAnalysisUnavailable},
		{"ErrGeneratorUnavailable", ErrGeneratorUnavailable},
		{"ErrChannelClosed", ErrChannelClosed},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrNoSlide", ErrNoSlide},
		{"ErrNoDrag", ErrNoDrag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrNotFound tests ErrNotFound error
func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading slide: %w", ErrInvalidSlideSize)
	assert.True(t, errors.Is(wrapped, ErrInvalidSlideSize))
	assert.False(t, errors.Is(wrapped, ErrUnknownSpace))
}

func TestGeometryError(t *testing.T) {
	err := error(&GeometryError{RegionID: "r1", Reason: "non-positive width or height"})

	assert.Equal(t, "region r1: non-positive width or height", err.Error())
	assert.True(t, errors.Is(err, ErrMalformedGeometry))

	var geomErr *GeometryError
	require.True(t, errors.As(fmt.Errorf("render: %w", err), &geomErr))
	assert.Equal(t, "r1", geomErr.RegionID)
}

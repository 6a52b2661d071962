package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

func TestDisplayScaler_ScaledFontSize(t *testing.T) {
	s := NewDisplayScaler(domain.DisplaySettings{Scale: 0.75, MinFontPt: 8, MaxFontPt: 72}, 85)

	tests := []struct {
		name   string
		basePt float64
		fit    domain.FitResult
		want   float64
	}{
		{"ok is nominal", 32, domain.FitResult{Classification: domain.FitOK, Percentage: 50}, 24},
		{"unbounded is nominal", 32, domain.FitResult{Classification: domain.FitOK, Unbounded: true}, 24},
		{"warning shrinks", 32, domain.FitResult{Classification: domain.FitWarning, Percentage: 90}, 24 * 85.0 / 90},
		{"error shrinks more", 32, domain.FitResult{Classification: domain.FitError, Percentage: 170}, 12},
		{"floor applies", 20, domain.FitResult{Classification: domain.FitError, Percentage: 1000}, 8},
		{"max caps nominal", 200, domain.FitResult{Classification: domain.FitOK}, 72},
		{"zero base", 0, domain.FitResult{Classification: domain.FitError, Percentage: 200}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.ScaledFontSize(tt.basePt, tt.fit), 1e-9)
		})
	}
}

func TestDisplayScaler_NeverExceedsNominal(t *testing.T) {
	s := NewDisplayScaler(domain.DisplaySettings{}, 0)
	v := NewFitValidator(0)

	for n := 0; n <= 60; n++ {
		fit := v.Validate(domain.TextContent(strings.Repeat("x", n)), 20)
		size := s.ScaledFontSize(28, fit)
		assert.LessOrEqual(t, size, s.Nominal(28))
		assert.GreaterOrEqual(t, size, 8.0)
	}
}

func TestDisplayScaler_DefaultsOnZeroSettings(t *testing.T) {
	s := NewDisplayScaler(domain.DisplaySettings{}, 0)

	assert.InDelta(t, 18.0, s.Nominal(24), 1e-9)
}

func TestDisplayScaler_DoesNotTouchFormatting(t *testing.T) {
	s := NewDisplayScaler(domain.DisplaySettings{}, 0)
	region := domain.Region{Formatting: domain.Formatting{BaseFontSizePt: 40}}

	_ = s.ScaledFontSize(region.Formatting.BaseFontSizePt, domain.FitResult{
		Classification: domain.FitError, Percentage: 300,
	})

	assert.InDelta(t, 40.0, region.Formatting.BaseFontSizePt, 1e-9)
}

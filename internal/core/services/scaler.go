package services

import (
	"math"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Ensure DisplayScaler implements the interface.
var _ driving.DisplayScaler = (*DisplayScaler)(nil)

// DisplayScaler computes on-screen font sizes.
// Its output is never written to Region.Formatting or an export bundle.
type DisplayScaler struct {
	scale       float64
	minPt       float64
	maxPt       float64
	warnPercent float64
}

// NewDisplayScaler creates a scaler from display settings and the fit warning threshold.
// Zero values fall back to the defaults.
func NewDisplayScaler(display domain.DisplaySettings, warnPercent float64) *DisplayScaler {
	defaults := domain.DefaultAppSettings().Display
	if display.Scale <= 0 {
		display.Scale = defaults.Scale
	}
	if display.MinFontPt <= 0 {
		display.MinFontPt = defaults.MinFontPt
	}
	if display.MaxFontPt <= 0 {
		display.MaxFontPt = defaults.MaxFontPt
	}
	if warnPercent <= 0 || warnPercent >= domain.ErrorPercent {
		warnPercent = domain.DefaultWarningPercent
	}
	return &DisplayScaler{
		scale:       display.Scale,
		minPt:       display.MinFontPt,
		maxPt:       display.MaxFontPt,
		warnPercent: warnPercent,
	}
}

// Nominal returns the display size before any fit reduction.
func (s *DisplayScaler) Nominal(basePt float64) float64 {
	if basePt <= 0 || math.IsNaN(basePt) {
		return 0
	}
	return basePt * s.scale
}

// ScaledFontSize returns the display size for a stored base size.
// OK content renders at the nominal size. WARNING and ERROR content shrinks
// by warn/percentage, so text at the warning threshold is unchanged and text
// at twice the threshold renders at half size, bounded by the legibility floor.
func (s *DisplayScaler) ScaledFontSize(basePt float64, fit domain.FitResult) float64 {
	nominal := s.Nominal(basePt)
	if nominal == 0 {
		return 0
	}
	upper := math.Min(nominal, s.maxPt)

	if fit.Classification != domain.FitWarning && fit.Classification != domain.FitError {
		return upper
	}
	if fit.Percentage <= s.warnPercent {
		return clamp(nominal, s.minPt, upper)
	}
	return clamp(nominal*s.warnPercent/fit.Percentage, s.minPt, upper)
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return hi
	}
	return math.Max(lo, math.Min(v, hi))
}

package driving

import "github.com/custodia-labs/slidefit/internal/core/domain"

// FitValidator classifies content against a region's character budget.
type FitValidator interface {
	// Validate classifies scalar or list content against a budget.
	// A zero budget is unbounded and always fits.
	Validate(content domain.Content, budgetChars int) domain.FitResult

	// CountChars returns the number of visible characters in s.
	CountChars(s string) int
}

// DisplayScaler computes the on-screen font size for a region.
type DisplayScaler interface {
	// ScaledFontSize returns the display size for a stored base size and fit state.
	// The result is presentation-only and must never be persisted or exported.
	ScaledFontSize(basePt float64, fit domain.FitResult) float64
}

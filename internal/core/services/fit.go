package services

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Ensure FitValidator implements the interface.
var _ driving.FitValidator = (*FitValidator)(nil)

// FitValidator classifies content against character budgets.
// It is a pure function of its inputs and safe for concurrent use.
type FitValidator struct {
	warnPercent float64
}

// NewFitValidator creates a validator. A non-positive or out-of-range
// warning threshold falls back to domain.DefaultWarningPercent.
func NewFitValidator(warnPercent float64) *FitValidator {
	if warnPercent <= 0 || warnPercent >= domain.ErrorPercent {
		warnPercent = domain.DefaultWarningPercent
	}
	return &FitValidator{warnPercent: warnPercent}
}

// WarningPercent returns the threshold where OK turns into WARNING.
func (v *FitValidator) WarningPercent() float64 {
	return v.warnPercent
}

// CountChars returns the number of user-perceived characters in s.
// Text is NFC-normalised first so "e" plus a combining accent counts once,
// the same as the precomposed form.
func (v *FitValidator) CountChars(s string) int {
	if s == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(norm.NFC.String(s))
}

// Validate classifies scalar or list content against a budget.
// List items are each held to PerItemBudget, which never drops below one
// character while the budget is bounded, so a budget smaller than the item
// count still gives every item a one-character share.
func (v *FitValidator) Validate(content domain.Content, budgetChars int) domain.FitResult {
	if content.List {
		return v.validateList(content.Items, budgetChars)
	}
	return v.validateScalar(v.CountChars(content.Text), budgetChars)
}

func (v *FitValidator) validateScalar(occupied, budget int) domain.FitResult {
	if budget <= 0 {
		return domain.FitResult{
			Fits:           true,
			OccupiedChars:  occupied,
			Classification: domain.FitOK,
			Unbounded:      true,
		}
	}

	pct := float64(occupied) / float64(budget) * 100
	overflow := occupied - budget
	if overflow < 0 {
		overflow = 0
	}
	return domain.FitResult{
		Fits:           occupied <= budget,
		OccupiedChars:  occupied,
		BudgetChars:    budget,
		Percentage:     pct,
		Classification: v.classify(pct),
		OverflowChars:  overflow,
	}
}

// validateList splits the budget evenly between items and validates each
// against its share. A long item overflows its line even when the total
// is within budget, so the aggregate reports the worst item.
func (v *FitValidator) validateList(items []string, budget int) domain.FitResult {
	occupied := 0
	counts := make([]int, len(items))
	for i, item := range items {
		counts[i] = v.CountChars(item)
		occupied += counts[i]
	}

	if budget <= 0 {
		res := v.validateScalar(occupied, 0)
		for _, n := range counts {
			res.PerItem = append(res.PerItem, v.validateScalar(n, 0))
		}
		return res
	}

	if len(items) == 0 {
		return v.validateScalar(0, budget)
	}

	share := PerItemBudget(budget, len(items))
	agg := domain.FitResult{
		Fits:           true,
		OccupiedChars:  occupied,
		BudgetChars:    budget,
		Classification: domain.FitOK,
		PerItem:        make([]domain.FitResult, len(items)),
	}
	for i, n := range counts {
		r := v.validateScalar(n, share)
		agg.PerItem[i] = r
		agg.OverflowChars += r.OverflowChars
		agg.Classification = agg.Classification.Worse(r.Classification)
		if r.Percentage > agg.Percentage {
			agg.Percentage = r.Percentage
		}
		if !r.Fits {
			agg.Fits = false
		}
	}
	return agg
}

func (v *FitValidator) classify(pct float64) domain.Classification {
	switch {
	case pct >= domain.ErrorPercent:
		return domain.FitError
	case pct >= v.warnPercent:
		return domain.FitWarning
	default:
		return domain.FitOK
	}
}

// PerItemBudget is the even share of a list budget: floor(budget / items),
// never below one character while the budget is bounded.
func PerItemBudget(budget, items int) int {
	if budget <= 0 {
		return 0
	}
	if items <= 0 {
		return budget
	}
	share := budget / items
	if share < 1 {
		share = 1
	}
	return share
}

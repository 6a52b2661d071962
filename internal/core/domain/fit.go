package domain

// Classification describes how close content is to exceeding its budget.
type Classification string

// Fit classifications, in increasing severity.
const (
	FitOK      Classification = "OK"
	FitWarning Classification = "WARNING"
	FitError   Classification = "ERROR"
)

// Severity orders classifications so the worst one can be selected.
func (c Classification) Severity() int {
	switch c {
	case FitWarning:
		return 1
	case FitError:
		return 2
	default:
		return 0
	}
}

// Worse returns the more severe of two classifications.
func (c Classification) Worse(o Classification) Classification {
	if o.Severity() > c.Severity() {
		return o
	}
	return c
}

// String returns the string representation.
func (c Classification) String() string {
	return string(c)
}

// Default fit thresholds, as percentages of the budget.
const (
	DefaultWarningPercent = 85.0
	ErrorPercent          = 100.0
)

// FitResult is derived from a content value and a budget. It is never stored.
// An ERROR classification is a visible badge, not a failure: edits are never blocked.
type FitResult struct {
	Fits           bool           `json:"fits"`
	OccupiedChars  int            `json:"occupied_chars"`
	BudgetChars    int            `json:"budget_chars"`
	Percentage     float64        `json:"percentage"`
	Classification Classification `json:"classification"`
	OverflowChars  int            `json:"overflow_chars"`

	// Unbounded is set when the budget is zero; no counter is displayed.
	Unbounded bool `json:"unbounded,omitempty"`

	// PerItem holds one result per list item, validated against an even share.
	PerItem []FitResult `json:"per_item,omitempty"`
}

// ShowCounter returns true if a character counter should be displayed.
func (f FitResult) ShowCounter() bool {
	return !f.Unbounded
}

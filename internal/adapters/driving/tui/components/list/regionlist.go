// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// RegionList displays the rendered regions of a frame with their fit badges.
type RegionList struct {
	regions  []domain.RegionElement
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRegionList creates a new region list component.
func NewRegionList(s *styles.Styles) *RegionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RegionList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the region list.
func (r *RegionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RegionList) Update(msg tea.Msg) (*RegionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the region list.
func (r *RegionList) View() string {
	if len(r.regions) == 0 {
		return r.styles.Muted.Render("No regions")
	}

	lines := make([]string, 0, len(r.regions)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Regions (%d)", len(r.regions))), "")

	// Each region takes two lines.
	visibleCount := (r.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.regions) {
		end = len(r.regions)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRegion(i, &r.regions[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRegion formats one region: kind, counter and badge, then a content preview.
func (r *RegionList) renderRegion(index int, el *domain.RegionElement) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s%-13s", indicator, el.Kind.String())
	if index == r.selected {
		head = r.styles.Selected.Render(head)
	} else {
		head = r.styles.Normal.Render(head)
	}

	if el.Layout == domain.LayoutNone {
		return head + "\n" + r.styles.Muted.Render("    (no text)")
	}

	meta := ""
	if el.Fit.ShowCounter() {
		meta = r.styles.Muted.Render(fmt.Sprintf(" %d/%d ", el.Fit.OccupiedChars, el.Fit.BudgetChars)) +
			r.styles.FitBadge(el.Fit.Classification)
	}
	if el.Fallback {
		meta += r.styles.Muted.Render(" ~")
	}

	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	preview := Truncate(previewText(el.Content), maxPreview)
	if preview == "" {
		preview = r.styles.Muted.Render("(empty)")
	} else {
		preview = r.styles.Muted.Render(preview)
	}

	return head + meta + "\n    " + preview
}

// previewText flattens content onto one line.
func previewText(c domain.Content) string {
	if !c.List {
		return strings.ReplaceAll(c.Text, "\n", " ")
	}
	var items []string
	for _, item := range c.Items {
		if item != "" {
			items = append(items, "• "+item)
		}
	}
	return strings.Join(items, "  ")
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetRegions updates the list, keeping the selection on the same region when possible.
func (r *RegionList) SetRegions(regions []domain.RegionElement) {
	selectedID := ""
	if el := r.SelectedRegion(); el != nil {
		selectedID = el.RegionID
	}
	r.regions = regions
	r.selected = 0
	for i := range regions {
		if regions[i].RegionID == selectedID {
			r.selected = i
			break
		}
	}
}

// Regions returns the current regions.
func (r *RegionList) Regions() []domain.RegionElement {
	return r.regions
}

// Selected returns the index of the selected region.
func (r *RegionList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RegionList) SetSelected(index int) {
	if index >= 0 && index < len(r.regions) {
		r.selected = index
	}
}

// SelectByID selects a region by ID and reports whether it was found.
func (r *RegionList) SelectByID(id string) bool {
	for i := range r.regions {
		if r.regions[i].RegionID == id {
			r.selected = i
			return true
		}
	}
	return false
}

// SelectedRegion returns the currently selected region, or nil if none.
func (r *RegionList) SelectedRegion() *domain.RegionElement {
	if r.selected < 0 || r.selected >= len(r.regions) {
		return nil
	}
	return &r.regions[r.selected]
}

// MoveUp moves selection up.
func (r *RegionList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RegionList) MoveDown() {
	if r.selected < len(r.regions)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RegionList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of regions.
func (r *RegionList) Count() int {
	return len(r.regions)
}

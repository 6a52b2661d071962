// Package input provides text input components for the TUI.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// ContentInput edits the content of one region with a live fit counter.
// Scalar regions use a single-line input; list regions use one line per item.
// Overflow is shown, never prevented: neither input has a character limit.
type ContentInput struct {
	text      textinput.Model
	area      textarea.Model
	styles    *styles.Styles
	validator driving.FitValidator

	regionID string
	label    string
	layout   domain.ContentLayout
	budget   int
	width    int
}

// NewContentInput creates a closed content input.
func NewContentInput(s *styles.Styles, validator driving.FitValidator) *ContentInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Enter text..."
	ti.CharLimit = 0
	ti.Width = 50

	ta := textarea.New()
	ta.Placeholder = "One item per line"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(5)

	return &ContentInput{
		text:      ti,
		area:      ta,
		styles:    s,
		validator: validator,
		width:     50,
	}
}

// Open loads a rendered region into the input and focuses it.
func (c *ContentInput) Open(el domain.RegionElement) tea.Cmd {
	c.regionID = el.RegionID
	c.label = strings.ToUpper(el.Kind.String())
	c.layout = el.Layout
	c.budget = el.Fit.BudgetChars

	if c.IsList() {
		c.area.SetValue(strings.Join(el.Content.Items, "\n"))
		c.text.Blur()
		return c.area.Focus()
	}
	c.text.SetValue(el.Content.Text)
	c.text.CursorEnd()
	c.area.Blur()
	return c.text.Focus()
}

// Close blurs and clears the input.
func (c *ContentInput) Close() {
	c.text.Blur()
	c.text.Reset()
	c.area.Blur()
	c.area.Reset()
	c.regionID = ""
}

// Update forwards key messages to the active input.
func (c *ContentInput) Update(msg tea.Msg) (*ContentInput, tea.Cmd) {
	var cmd tea.Cmd
	if c.IsList() {
		c.area, cmd = c.area.Update(msg)
	} else {
		c.text, cmd = c.text.Update(msg)
	}
	return c, cmd
}

// View renders the input with its label and counter.
func (c *ContentInput) View() string {
	label := c.styles.Title.Render(c.label + ": ")

	var field string
	if c.IsList() {
		field = c.styles.InputField.Render(c.area.View())
	} else {
		field = c.styles.InputField.Render(c.text.View())
	}

	//nolint:misspell // lipgloss.Center is the correct constant from the library
	row := lipgloss.JoinHorizontal(lipgloss.Center, label, field)
	counter := c.Counter()
	if counter == "" {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, counter)
}

// Counter renders the live character counter, or nothing for unbounded regions.
func (c *ContentInput) Counter() string {
	fit := c.Fit()
	if !fit.ShowCounter() {
		return ""
	}
	text := fmt.Sprintf("%d/%d chars (%.0f%%)", fit.OccupiedChars, fit.BudgetChars, fit.Percentage)
	if fit.OverflowChars > 0 {
		text += fmt.Sprintf(", %d over", fit.OverflowChars)
	}
	style := lipgloss.NewStyle().Foreground(c.styles.Fit(fit.Classification))
	return style.Render(text) + " " + c.styles.FitBadge(fit.Classification)
}

// Fit validates the current value against the region's budget.
func (c *ContentInput) Fit() domain.FitResult {
	if c.validator == nil {
		return domain.FitResult{Fits: true, Unbounded: true, Classification: domain.FitOK}
	}
	return c.validator.Validate(c.Value(), c.budget)
}

// Value returns the edited content in the region's layout.
// Blank list lines are dropped.
func (c *ContentInput) Value() domain.Content {
	if !c.IsList() {
		return domain.TextContent(c.text.Value())
	}
	var items []string
	for _, line := range strings.Split(c.area.Value(), "\n") {
		if strings.TrimSpace(line) != "" {
			items = append(items, line)
		}
	}
	return domain.ListContent(items...)
}

// RegionID returns the region being edited, or empty when closed.
func (c *ContentInput) RegionID() string {
	return c.regionID
}

// IsList returns true when editing a list region.
func (c *ContentInput) IsList() bool {
	return c.layout == domain.LayoutList
}

// Focused returns whether the input is open.
func (c *ContentInput) Focused() bool {
	return c.text.Focused() || c.area.Focused()
}

// SetWidth sets the width of the input.
func (c *ContentInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - len(c.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.text.Width = inputWidth
	c.area.SetWidth(inputWidth)
}

// Width returns the current width.
func (c *ContentInput) Width() int {
	return c.width
}

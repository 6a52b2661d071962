// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady      State = "ready"
	StateLoading    State = "loading"
	StateEditing    State = "editing"
	StateGenerating State = "generating"
	StateError      State = "error"
	StateHelp       State = "help"
)

// Summary counts regions by fit classification.
type Summary struct {
	Regions  int
	Warnings int
	Errors   int
}

// Summarise counts the fit classifications of a frame's regions.
func Summarise(frame *domain.Frame) Summary {
	if frame == nil {
		return Summary{}
	}
	s := Summary{Regions: len(frame.Regions)}
	for i := range frame.Regions {
		switch frame.Regions[i].Fit.Classification {
		case domain.FitWarning:
			s.Warnings++
		case domain.FitError:
			s.Errors++
		}
	}
	return s
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	summary  Summary
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading slide...")
	case StateGenerating:
		return s.styles.Muted.Render("Generating...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateEditing:
	}

	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	if s.summary.Regions == 0 {
		return s.styles.Muted.Render("Ready")
	}

	parts := []string{s.styles.Normal.Render(fmt.Sprintf("%d regions", s.summary.Regions))}
	if s.summary.Warnings > 0 {
		parts = append(parts, s.styles.Warning.Render(fmt.Sprintf("%d near limit", s.summary.Warnings)))
	}
	if s.summary.Errors > 0 {
		parts = append(parts, s.styles.Error.Render(fmt.Sprintf("%d over", s.summary.Errors)))
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.bindings
	if bindings == nil {
		switch {
		case s.state == StateEditing:
			bindings = s.keymap.EditingHelp()
		case s.summary.Regions > 0:
			bindings = s.keymap.EditorHelp()
		default:
			bindings = s.keymap.ShortHelp()
		}
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSummary sets the fit summary.
func (s *Bar) SetSummary(summary Summary) {
	s.summary = summary
}

// Summary returns the current fit summary.
func (s *Bar) Summary() Summary {
	return s.summary
}

// SetBindings overrides the keybinding hints. Nil restores the state-based hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.summary = Summary{}
}

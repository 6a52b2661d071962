// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionWarning
	SectionDisplay
	SectionCache
	SectionGeneration
	SectionCollab
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// Choices offered by the single-select sections.
var (
	warningChoices = []float64{70, 75, 80, 85, 90, 95}
	scaleChoices   = []float64{0.5, 0.6, 0.75, 0.9, 1.0}
	cacheChoices   = []domain.CacheBackend{domain.CacheNone, domain.CacheMemory, domain.CacheSQLite}
	collabChoices  = []domain.CollabBackend{domain.CollabNone, domain.CollabMemory, domain.CollabDir}
)

// overviewItems is the number of rows on the overview.
const overviewItems = 5

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error

	// Navigation state
	section      Section
	selected     int // selection within current section
	focusedField int // for text input focus

	// Text input for the generator API key
	apiKeyInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			// Reload settings after save
			cmd := v.loadSettings()
			return v, cmd
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Global escape to go back
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionGeneration:
		return v.handleGenerationKeys(msg)
	default:
		return v.handleChoiceKeys(msg)
	}
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil {
			return v, nil
		}
		switch v.selected {
		case 0:
			v.section = SectionWarning
			v.selected = indexOf(warningChoices, v.settings.Fit.WarningPercent)
		case 1:
			v.section = SectionDisplay
			v.selected = indexOf(scaleChoices, v.settings.Display.Scale)
		case 2:
			v.section = SectionCache
			v.selected = indexOf(cacheChoices, v.settings.Cache.Backend)
		case 3:
			v.section = SectionGeneration
			v.selected = indexOf(domain.AllLLMProviders(), v.settings.Generation.Provider)
		case 4:
			v.section = SectionCollab
			v.selected = indexOf(collabChoices, v.settings.Collab.Backend)
		}
	}
	return v, nil
}

// handleChoiceKeys drives the single-select sections.
func (v *View) handleChoiceKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	count := len(v.choiceLabels())

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < count-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < count {
			return v, v.applyChoice(v.section, v.selected)
		}
	}
	return v, nil
}

//nolint:gocognit // TUI input complexity
func (v *View) handleGenerationKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllLLMProviders()

	// If we're focused on the API key input
	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			v.apiKeyInput.Blur()
			return v, nil
		case keyEnter:
			if v.selected >= 0 && v.selected < len(providers) {
				cmd := v.setGenerationProvider(providers[v.selected], v.apiKeyInput.Value())
				return v, cmd
			}
		default:
			var cmd tea.Cmd
			v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab:
		// Tab to API key input if provider requires it
		if v.selected >= 0 && v.selected < len(providers) && providers[v.selected].RequiresAPIKey() {
			v.focusedField = 1
			cmd := v.apiKeyInput.Focus()
			return v, cmd
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(providers) {
			provider := providers[v.selected]
			if provider.RequiresAPIKey() {
				// Need API key - focus on input
				v.focusedField = 1
				cmd := v.apiKeyInput.Focus()
				return v, cmd
			}
			// No API key needed - save directly
			cmd := v.setGenerationProvider(provider, "")
			return v, cmd
		}
	}
	return v, nil
}

// Commands to update settings.

// applyChoice saves the chosen option of a single-select section.
func (v *View) applyChoice(section Section, idx int) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil || v.settings == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		var err error
		switch section {
		case SectionWarning:
			err = v.settingsService.SetWarningPercent(warningChoices[idx])
		case SectionDisplay:
			display := v.settings.Display
			display.Scale = scaleChoices[idx]
			err = v.settingsService.SetDisplay(display)
		case SectionCache:
			cache := v.settings.Cache
			cache.Backend = cacheChoices[idx]
			err = v.settingsService.SetCache(cache)
		case SectionCollab:
			collab := v.settings.Collab
			collab.Backend = collabChoices[idx]
			err = v.settingsService.SetCollab(collab)
		default:
			return nil
		}
		if err == nil {
			v.backToOverview()
		}
		return messages.SettingsSaved{Err: err}
	}
}

func (v *View) setGenerationProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		// Use default model
		model := domain.DefaultLLMModels()[provider]
		err := v.settingsService.SetGenerationProvider(provider, model, apiKey)
		if err == nil {
			v.backToOverview()
		}
		return messages.SettingsSaved{Err: err}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Loading state
	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionGeneration:
		b.WriteString(v.renderGenerationSelect())
	default:
		b.WriteString(v.renderChoiceSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	generationValue := "Not Set"
	if v.settings.Generation.Provider != "" {
		generationValue = fmt.Sprintf("%s (%s)", v.settings.Generation.Provider.Description(), v.settings.Generation.Model)
	}

	collabValue := v.settings.Collab.Backend.String()
	if v.settings.Collab.Backend == domain.CollabDir && v.settings.Collab.Dir != "" {
		collabValue += " (" + v.settings.Collab.Dir + ")"
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{
			label: "Warning threshold",
			value: fmt.Sprintf("%.0f%%", v.settings.Fit.WarningPercent),
		},
		{
			label: "Display scale",
			value: fmt.Sprintf("%.2f (%.0f-%.0f pt)",
				v.settings.Display.Scale, v.settings.Display.MinFontPt, v.settings.Display.MaxFontPt),
		},
		{
			label: "Geometry cache",
			value: v.settings.Cache.Backend.Description(),
		},
		{
			label:  "Content generator",
			value:  generationValue,
			status: v.getGenerationStatus(),
		},
		{
			label: "Collaboration",
			value: collabValue,
		},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if item.status != "" {
			line += " " + item.status
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Validation status
	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func (v *View) getGenerationStatus() string {
	if v.settings.Generation.Provider == "" {
		return ""
	}
	if v.settings.Generation.IsConfigured() {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

// choiceLabels returns the option labels and the current option of the active section.
func (v *View) choiceLabels() []string {
	switch v.section {
	case SectionWarning:
		labels := make([]string, len(warningChoices))
		for i, c := range warningChoices {
			labels[i] = fmt.Sprintf("%.0f%%", c)
		}
		return labels
	case SectionDisplay:
		labels := make([]string, len(scaleChoices))
		for i, c := range scaleChoices {
			labels[i] = fmt.Sprintf("%.2f", c)
		}
		return labels
	case SectionCache:
		labels := make([]string, len(cacheChoices))
		for i, c := range cacheChoices {
			labels[i] = c.Description()
		}
		return labels
	case SectionCollab:
		labels := make([]string, len(collabChoices))
		for i, c := range collabChoices {
			labels[i] = c.String()
		}
		return labels
	default:
		return nil
	}
}

func (v *View) currentChoice() int {
	if v.settings == nil {
		return -1
	}
	switch v.section {
	case SectionWarning:
		return indexOf(warningChoices, v.settings.Fit.WarningPercent)
	case SectionDisplay:
		return indexOf(scaleChoices, v.settings.Display.Scale)
	case SectionCache:
		return indexOf(cacheChoices, v.settings.Cache.Backend)
	case SectionCollab:
		return indexOf(collabChoices, v.settings.Collab.Backend)
	default:
		return -1
	}
}

func (v *View) sectionTitle() string {
	switch v.section {
	case SectionWarning:
		return "Select Warning Threshold"
	case SectionDisplay:
		return "Select Display Scale"
	case SectionCache:
		return "Select Geometry Cache"
	case SectionGeneration:
		return "Select Content Generator"
	case SectionCollab:
		return "Select Collaboration Channel"
	default:
		return ""
	}
}

func (v *View) renderChoiceSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(v.sectionTitle()))
	b.WriteString("\n\n")

	current := v.currentChoice()
	for i, label := range v.choiceLabels() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		suffix := ""
		if i == current {
			suffix = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, label, suffix)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.section == SectionCollab && v.selected < len(collabChoices) && collabChoices[v.selected] == domain.CollabDir {
		b.WriteString(v.styles.Muted.Render("    Set the shared directory with: slidefit settings collab --dir PATH"))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderGenerationSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(v.sectionTitle()))
	b.WriteString("\n\n")

	providers := domain.AllLLMProviders()
	for i, provider := range providers {
		indicator := "  "
		if i == v.selected && v.focusedField == 0 {
			indicator = "> "
		}

		current := ""
		if v.settings != nil && provider == v.settings.Generation.Provider {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, provider.Description(), current)
		if i == v.selected && v.focusedField == 0 {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")

		// Show default model
		if model, ok := domain.DefaultLLMModels()[provider]; ok {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
			b.WriteString("\n")
		}
	}

	// API key input (if selected provider requires it)
	if v.selected >= 0 && v.selected < len(providers) && providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(v.apiKeyInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionGeneration:
		if v.focusedField == 1 {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	default:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
}

func indexOf[T comparable](choices []T, current T) int {
	for i, c := range choices {
		if c == current {
			return i
		}
	}
	return 0
}

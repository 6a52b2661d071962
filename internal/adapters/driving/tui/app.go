package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/views/assets"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// frameSource is implemented by editor sessions that push frames on change.
type frameSource interface {
	OnChange(fn func(*domain.Frame))
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// editorView shows the slide map, regions and inline editor.
	editorView *editor.View

	// assetsView places user assets on the slide.
	assetsView *assets.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// slide is loaded through the analysis service on start, when set.
	slide *domain.SlideRef

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		editorView:   editor.NewView(s, km, ports.Editor, ports.Validator),
		assetsView:   assets.NewView(s, km, ports.Editor),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.editorView.WithContext(ctx)
	a.assetsView.WithContext(ctx)
	return a
}

// WithSlide loads a slide through the analysis service when the app starts.
func (a *App) WithSlide(ref domain.SlideRef) *App {
	a.slide = &ref
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("slidefit"),
	}
	if a.slide != nil {
		cmds = append(cmds, a.loadSlide(*a.slide))
	}
	return tea.Batch(cmds...)
}

// loadSlide resolves a slide through the geometry cache and ingests it.
func (a *App) loadSlide(ref domain.SlideRef) tea.Cmd {
	return func() tea.Msg {
		if a.ports.Analysis == nil {
			return messages.SlideLoaded{Err: ErrMissingAnalysisService}
		}
		result, err := a.ports.Analysis.Load(a.ctx, ref)
		if err != nil {
			return messages.SlideLoaded{Err: err}
		}
		if err := a.ports.Editor.Ingest(a.ctx, result); err != nil {
			return messages.SlideLoaded{Err: err}
		}
		return messages.SlideLoaded{Result: result}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.editorView.SetDimensions(msg.Width, msg.Height)
		a.assetsView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
			a.err = a.editorView.Err()
			return a, cmd

		case messages.ViewAssets:
			a.assetsView, cmd = a.assetsView.Update(msg)
			a.err = a.assetsView.Err()
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewEditor:
			return a, a.editorView.Init()
		case messages.ViewAssets:
			return a, a.assetsView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.SlideLoaded:
		a.editorView, cmd = a.editorView.Update(msg)
		a.err = msg.Err
		if msg.Err == nil {
			a.currentView = messages.ViewEditor
		}
		return a, cmd

	case messages.FrameUpdated:
		// Frames pushed by remote edits refresh whichever slide view is open
		a.editorView, _ = a.editorView.Update(msg)
		a.assetsView, _ = a.assetsView.Update(msg)
		return a, nil

	case messages.ContentApplied, messages.GenerationCompleted:
		a.editorView, cmd = a.editorView.Update(msg)
		a.err = a.editorView.Err()
		return a, cmd

	case messages.AssetsChanged:
		a.assetsView, cmd = a.assetsView.Update(msg)
		a.err = a.assetsView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
		case messages.ViewAssets:
			a.assetsView, cmd = a.assetsView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp, messages.ViewSettings:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit

	case messages.SettingsLoaded, messages.SettingsSaved:
		// Forward to settings view
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewAssets:
		a.assetsView, cmd = a.assetsView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewEditor:
		return a.editorView.View()
	case messages.ViewAssets:
		return a.assetsView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Edit slide:
  j/k, ↑/↓    Select region
  enter, e    Edit region content
  enter       Apply (single line)
  ctrl+s      Apply (lists, one item per line)
  g           Generate content from a prompt
  d           Toggle debug grid
  m           Toggle media overlays

Assets:
  a, 1-5      Insert chart, icon, shape, image, template
  j/k         Select asset
  H/J/K/L     Nudge selected asset
  x           Remove selected asset

[esc] back to menu`
}

// Run starts the TUI application. Remote edits received while it runs
// are applied to the session and pushed to the open view.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	a.WithContext(ctx)

	p := tea.NewProgram(a, tea.WithAltScreen())

	if src, ok := a.ports.Editor.(frameSource); ok {
		// The callback runs under the session lock; Send must not block it.
		src.OnChange(func(f *domain.Frame) {
			go p.Send(messages.FrameUpdated{Frame: f})
		})
		defer src.OnChange(nil)
	}

	go func() {
		if err := a.ports.Editor.Listen(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("collaboration channel: %v", err)
		}
	}()

	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.assetsView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}

// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Edit opens the inline editor on the selected region.
	Edit key.Binding

	// Commit applies the inline edit.
	Commit key.Binding

	// Cancel cancels the current operation.
	Cancel key.Binding

	// Generate asks the content generator for new copy.
	Generate key.Binding

	// Debug toggles the debug grid.
	Debug key.Binding

	// Media toggles extracted media overlays.
	Media key.Binding

	// Insert adds an asset.
	Insert key.Binding

	// Remove deletes the selected asset.
	Remove key.Binding

	// Nudge keys move the selected asset by one percent.
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter/ctrl+s", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug grid"),
		),
		Media: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "media"),
		),
		Insert: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add asset"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		NudgeLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "left"),
		),
		NudgeRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "right"),
		),
		NudgeUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "up"),
		),
		NudgeDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "down"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// EditorHelp returns keybindings for the region editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Generate, k.Debug, k.Media, k.Back}
}

// EditingHelp returns keybindings while the inline editor is open.
func (k *KeyMap) EditingHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Cancel}
}

// AssetsHelp returns keybindings for the asset view.
func (k *KeyMap) AssetsHelp() []key.Binding {
	return []key.Binding{k.Insert, k.NudgeLeft, k.NudgeRight, k.Remove, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit},
		{k.Generate, k.Debug, k.Media},
		{k.Insert, k.Remove, k.NudgeLeft, k.NudgeRight, k.NudgeUp, k.NudgeDown},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the history browser.
type KeyMap struct {
	// Commit list
	Down     key.Binding
	Up       key.Binding
	PageDown key.Binding
	PageUp   key.Binding

	// Diff pane
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	NextFile     key.Binding
	PrevFile     key.Binding

	// General
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("down", "k"),
			key.WithHelp("↓/k", "next commit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "i"),
			key.WithHelp("↑/i", "previous commit"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "K"),
			key.WithHelp("pgdn/K", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "I"),
			key.WithHelp("pgup/I", "page up"),
		),

		ScrollDown: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "scroll diff down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "scroll diff up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "diff half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "diff half page up"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "previous file"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.ScrollDown, k.ScrollUp, k.NextFile, k.PrevFile, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.PageDown, k.PageUp},                                             // Commits
		{k.ScrollDown, k.ScrollUp, k.HalfPageDown, k.HalfPageUp, k.NextFile, k.PrevFile}, // Diff
		{k.Refresh, k.Help, k.Quit},                                                      // General
	}
}

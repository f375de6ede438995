package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the deck key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding
	NextPage  key.Binding

	// Deck
	SwipeLeft  key.Binding
	SwipeRight key.Binding
	Reload     key.Binding

	// Scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "deck/stats"),
		),

		SwipeLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "swipe left"),
		),
		SwipeRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "swipe right"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload deck"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "pagedown"),
			key.WithHelp("pgdn", "page down"),
		),
	}
}

// ShortHelp implements help.KeyMap for the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwipeLeft, k.SwipeRight, k.Reload, k.NextPage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwipeLeft, k.SwipeRight, k.Reload},
		{k.NextPage, k.Help, k.Escape},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.ForceQuit},
	}
}

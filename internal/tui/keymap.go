package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Generate
	Submit key.Binding
	Press  key.Binding

	// Focus and navigation
	NextFocus key.Binding
	PrevFocus key.Binding
	Up        key.Binding
	Down      key.Binding

	// Feedback
	ThumbsUp   key.Binding
	ThumbsDown key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+j", "alt+enter"),
			key.WithHelp("Ctrl+J/Alt+Enter", "generate"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("Enter", "press button"),
		),

		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),

		ThumbsUp: key.NewBinding(
			key.WithKeys("+", "=", "y"),
			key.WithHelp("+/y", "more like this"),
		),
		ThumbsDown: key.NewBinding(
			key.WithKeys("-", "n"),
			key.WithHelp("-/n", "fewer like this"),
		),

		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextFocus, k.ThumbsUp, k.ThumbsDown, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Press},
		{k.NextFocus, k.PrevFocus, k.Up, k.Down},
		{k.ThumbsUp, k.ThumbsDown},
		{k.Quit, k.ForceQuit},
	}
}

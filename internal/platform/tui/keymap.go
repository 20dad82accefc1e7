package tui

import "github.com/charmbracelet/bubbles/key"

// RoundKeyMap defines the key bindings while a round is on screen.
// Cars themselves are moved with the mouse.
type RoundKeyMap struct {
	Release key.Binding
	Restart key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RoundKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Release, k.Restart, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RoundKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Release, k.Restart},
		{k.Back, k.Help, k.Quit},
	}
}

// DefaultRoundKeyMap returns default key bindings.
func DefaultRoundKeyMap() RoundKeyMap {
	return RoundKeyMap{
		Release: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "drop car"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new round"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "variants"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerKeyMap defines the key bindings of the variant picker.
type PickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	History key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.History, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

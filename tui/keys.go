package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal client.
type KeyMap struct {
	// Browsing
	Down    key.Binding
	Up      key.Binding
	Open    key.Binding
	Star    key.Binding
	Delete  key.Binding
	Reply   key.Binding
	Compose key.Binding
	Inbox   key.Binding
	Starred key.Binding
	Sent    key.Binding
	Quit    key.Binding

	// Composing
	NextField key.Binding
	PrevField key.Binding
	Send      key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compose"),
		),
		Inbox: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "inbox"),
		),
		Starred: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "starred"),
		),
		Sent: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sent"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap for the message list.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Open, k.Star, k.Delete, k.Reply, k.Compose, k.Quit}
}

// FullHelp implements help.KeyMap for the message list.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Open},
		{k.Star, k.Delete, k.Reply, k.Compose},
		{k.Inbox, k.Starred, k.Sent, k.Quit},
	}
}

// composeHelp shows the bindings that apply while the compose form is open.
type composeHelp struct{ k *KeyMap }

func (c composeHelp) ShortHelp() []key.Binding {
	return []key.Binding{c.k.NextField, c.k.PrevField, c.k.Send, c.k.Cancel}
}

func (c composeHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}

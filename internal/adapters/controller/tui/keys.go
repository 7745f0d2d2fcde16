package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the notification view
type KeyMap struct {
	Dismiss key.Binding
	Refresh key.Binding
	Toggle  key.Binding
	Clear   key.Binding
	Landing key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Dismiss: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x/esc", "dismiss"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "check now"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle notifications"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "forget shown events"),
		),
		Landing: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "landing/home"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.Refresh, k.Help, k.Quit}
}

func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dismiss, k.Refresh, k.Toggle},
		{k.Clear, k.Landing, k.Help, k.Quit},
	}
}

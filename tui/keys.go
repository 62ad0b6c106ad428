package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play key.Binding
	Next key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Play: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "play/stop")),
		Next: key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next file")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Next, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Play, k.Next}, {k.Help, k.Quit}}
}

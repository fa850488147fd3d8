package app

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	AddBoards key.Binding
	Quit      key.Binding
}

var GlobalKeys = KeyMap{
	AddBoards: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add boards"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

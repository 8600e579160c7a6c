package main

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

var DefaultKeyMap = KeyMap{
	ScrollUp:   key.NewBinding(key.WithKeys("up", "k")),
	ScrollDown: key.NewBinding(key.WithKeys("down", "j")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the match decision view.
type keyMap struct {
	Merge  key.Binding
	New    key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge into existing"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add as new"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c", "esc", "ctrl+c"),
			key.WithHelp("c", "cancel import"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Merge, k.New, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Merge, k.New, k.Cancel}}
}

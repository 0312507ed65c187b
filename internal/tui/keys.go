package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Cancel key.Binding
	Undo   key.Binding
	Redo   key.Binding
	Notes  key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Undo:   key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+y", "U"), key.WithHelp("ctrl+y", "redo")),
		Notes:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "prev section")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next section")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Notes, k.Up, k.Down, k.Cancel, k.Quit}
}

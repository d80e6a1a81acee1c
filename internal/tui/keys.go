package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add     key.Binding
	Search  key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Dismiss key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter")),
		Cancel:  key.NewBinding(key.WithKeys("esc")),
	}
}

func (k keyMap) extra() []key.Binding {
	return []key.Binding{k.Add, k.Search, k.Toggle, k.Delete, k.Reload, k.Dismiss, k.Quit}
}

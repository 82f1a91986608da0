package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Interrupt key.Binding // Quits even while typing a search
	Refresh   key.Binding
	Type      key.Binding
	Sort      key.Binding
	Search    key.Binding
	More      key.Binding
	Theme     key.Binding
	Language  key.Binding
	Help      key.Binding
	Back      key.Binding
	Confirm   key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Type:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	More:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "more")),
	Theme:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "theme")),
	Language:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Type, k.Search, k.Sort, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Type, k.Search, k.Sort, k.Back},
		{k.More, k.Refresh},
		{k.Theme, k.Language},
		{k.Help, k.Quit},
	}
}

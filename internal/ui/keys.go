package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings that are not forwarded to the query input.
type keyMap struct {
	Quit  key.Binding
	Debug key.Binding
	Clear key.Binding
	Up    key.Binding
	Down  key.Binding
	Next  key.Binding
	Prev  key.Binding
}

var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Debug: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
	Clear: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "row up")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "row down")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
}

// statusHints are the bindings advertised in the status bar.
func (k keyMap) statusHints() []key.Binding {
	return []key.Binding{k.Clear, k.Next, k.Debug, k.Quit}
}

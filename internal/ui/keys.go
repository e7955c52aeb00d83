package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add    key.Binding
	Open   key.Binding
	Server key.Binding
	Reload key.Binding
	Quit   key.Binding

	Close  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Copy   key.Binding
}

var keys = keyMap{
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add workout")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Server: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "server")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
	Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy json")),
}

func (k keyMap) mainHelp() []key.Binding {
	return []key.Binding{k.Add, k.Open, k.Server, k.Reload, k.Quit}
}

func (k keyMap) paneHelp(kind ViewKind) []key.Binding {
	switch kind {
	case ViewAddWorkout:
		return []key.Binding{k.Next, k.Prev, k.Submit, k.Close}
	case ViewWorkoutDetail:
		return []key.Binding{k.Next, k.Copy, k.Close}
	default:
		return []key.Binding{k.Close}
	}
}

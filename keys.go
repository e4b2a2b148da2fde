package main

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the TUI
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	Kill        key.Binding
	KillAll     key.Binding
	Terminate   key.Binding
	Copy        key.Binding
	Export      key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Search      key.Binding
	Events      key.Binding
	Quit        key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	Dismiss     key.Binding
	Sort        []key.Binding // indexed like process.SortKeys
}

// keys is the default set of key bindings
var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	ExtendUp: key.NewBinding(
		key.WithKeys("shift+up"),
		key.WithHelp("shift+↑", "extend selection"),
	),
	ExtendDown: key.NewBinding(
		key.WithKeys("shift+down"),
		key.WithHelp("shift+↓", "extend selection"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	Select: key.NewBinding(
		key.WithKeys(" ", "tab"),
		key.WithHelp("space", "select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),
	DeselectAll: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "deselect all"),
	),
	Kill: key.NewBinding(
		key.WithKeys("enter", "d"),
		key.WithHelp("d", "kill"),
	),
	KillAll: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "kill all selected"),
	),
	Terminate: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "end task"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r", "refresh"),
	),
	AutoRefresh: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "auto-refresh"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Events: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "event log"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("enter", "esc", " ", "o"),
		key.WithHelp("enter", "ok"),
	),
	Sort: []key.Binding{
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort pid")),
		key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort name")),
		key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort status")),
		key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "sort cpu")),
		key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "sort memory")),
		key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "sort description")),
	},
}

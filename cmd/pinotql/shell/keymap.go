package shell

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Compile        key.Binding
	ToggleRewrites key.Binding
	Clear          key.Binding
	Help           key.Binding
	Quit           key.Binding
}

var keys = keyMap{
	Compile: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "compile query"),
	),
	ToggleRewrites: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle rewrites"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear editor"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("ctrl+h", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

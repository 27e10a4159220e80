package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the in-game key bindings.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Click     key.Binding
	Restart   key.Binding
	NextLevel key.Binding
	Sound     key.Binding
	Visual    key.Binding
	Menu      key.Binding
	Quit      key.Binding
}

// Keys is the default binding set: arrows or hjkl to move, enter or space
// to slide the tile under the cursor.
var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "slide"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reshuffle"),
	),
	NextLevel: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next level"),
	),
	Sound: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sound"),
	),
	Visual: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "flash"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m", "esc"),
		key.WithHelp("m", "menu"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

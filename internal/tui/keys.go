package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the keyboard bindings. Directions act like the on-screen
// buttons: they commit without a drag.
type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Super      key.Binding
	Undo       key.Binding
	PrevImage  key.Binding
	NextImage  key.Binding
	NextScreen key.Binding
	Deck       key.Binding
	Edge       key.Binding
	Feed       key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Super:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "super")),
		Undo:       key.NewBinding(key.WithKeys("u", "backspace"), key.WithHelp("u", "undo")),
		PrevImage:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev image")),
		NextImage:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next image")),
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Deck:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "deck")),
		Edge:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "edge")),
		Feed:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "feed")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Undo, k.NextScreen, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Super},
		{k.Undo, k.PrevImage, k.NextImage, k.Dismiss},
		{k.NextScreen, k.Deck, k.Edge, k.Feed},
		{k.Help, k.Quit},
	}
}

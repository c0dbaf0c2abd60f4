package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the timeline screen.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Earlier key.Binding
	Later   key.Binding
	Range1W key.Binding
	Range2W key.Binding
	Range1M key.Binding
	Range3M key.Binding
	Today   key.Binding
	Up      key.Binding
	Down    key.Binding
	Detail  key.Binding
	Open    key.Binding
	Copy    key.Binding
	Team    key.Binding
	Tab     key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Escape  key.Binding
	Reload  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Earlier: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "earlier")),
		Later:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "later")),
		Range1W: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "1 week")),
		Range2W: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "2 weeks")),
		Range1M: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "1 month")),
		Range3M: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "3 months")),
		Today:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "this week")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous item")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next item")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Team:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "switch team")),
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "status filter")),
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/→", "move")),
		Right:   key.NewBinding(key.WithKeys("l", "right")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle state")),
		Escape:  key.NewBinding(key.WithKeys("esc")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Earlier, k.Later, k.Detail, k.Team, k.Tab, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help modal.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Earlier, k.Later, k.Today, k.Range1W, k.Range2W, k.Range1M, k.Range3M},
		{k.Up, k.Down, k.Detail, k.Open, k.Copy},
		{k.Team, k.Tab, k.Left, k.Toggle, k.Reload, k.Help, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next, Prev     key.Binding
	Submit, Leave  key.Binding
	Toggle, Remove key.Binding
	New            key.Binding
	Up, Down       key.Binding
	Quit           key.Binding
	ForceQuit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cards")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		New:       key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "new")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// focusHelp shows the bindings that apply to the focused area.
type focusHelp struct {
	short []key.Binding
}

func (h focusHelp) ShortHelp() []key.Binding  { return h.short }
func (h focusHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.short} }

func (k keyMap) forFocus(f focus) focusHelp {
	if f == focusList {
		return focusHelp{short: []key.Binding{k.Up, k.Down, k.Toggle, k.Remove, k.New, k.Quit}}
	}
	return focusHelp{short: []key.Binding{k.Submit, k.Next, k.Leave, k.ForceQuit}}
}

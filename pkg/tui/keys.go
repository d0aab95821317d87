package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap mirrors the teacher's deckKeyMap pattern: a flat struct of
// key.Binding fields implementing help.KeyMap.
type keyMap struct {
	Submit     key.Binding
	ClearInput key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	CycleMode  key.Binding
	Quit       key.Binding
	QuitAlt    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		ClearInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear input")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
		CycleMode:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "cycle mode")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitAlt:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ClearInput, k.CycleMode, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.ClearInput},
		{k.PageUp, k.PageDown},
		{k.CycleMode, k.Quit, k.QuitAlt},
	}
}

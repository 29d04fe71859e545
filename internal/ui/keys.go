package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send     key.Binding
	Quick    key.Binding
	Attach   key.Binding
	Detach   key.Binding
	Browse   key.Binding
	Close    key.Binding
	Open     key.Binding
	Export   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding

	// browse mode
	Up       key.Binding
	Down     key.Binding
	Positive key.Binding
	Negative key.Binding
	Copy     key.Binding
	Back     key.Binding

	// attach prompt
	Complete key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func newKeyMap(compact bool) keyMap {
	km := keyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Quick:    key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4"), key.WithHelp("alt+1-4", "quick reply")),
		Attach:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "attach")),
		Detach:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "detach")),
		Browse:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "messages")),
		Close:    key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Open:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open chat")),
		Export:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Positive: key.NewBinding(key.WithKeys("+", "y"), key.WithHelp("+", "helpful")),
		Negative: key.NewBinding(key.WithKeys("-", "n"), key.WithHelp("-", "not helpful")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Back:     key.NewBinding(key.WithKeys("esc", "i", "enter"), key.WithHelp("esc", "back to input")),

		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "attach")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
	// closing is only offered in the compact presentation
	km.Close.SetEnabled(compact)
	return km
}

// chatHelp implements help.KeyMap for the input mode.
type chatHelp struct{ k keyMap }

func (h chatHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Send, h.k.Quick, h.k.Attach, h.k.Browse, h.k.Export, h.k.Close, h.k.Quit}
}

func (h chatHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp(), {h.k.Detach, h.k.PageUp, h.k.PageDown}}
}

type browseHelp struct{ k keyMap }

func (h browseHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Positive, h.k.Negative, h.k.Copy, h.k.Back}
}

func (h browseHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type attachHelp struct{ k keyMap }

func (h attachHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Confirm, h.k.Complete, h.k.Cancel}
}

func (h attachHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

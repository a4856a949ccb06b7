package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/yuanying/tread/internal/config"
)

// KeyMap defines the reader key bindings.
type KeyMap struct {
	NextPage    key.Binding
	PrevPage    key.Binding
	NextChapter key.Binding
	PrevChapter key.Binding
	GotoStart   key.Binding
	GotoEnd     key.Binding
	Contents    key.Binding
	Back        key.Binding
	Help        key.Binding
	Quit        key.Binding

	// Contents menu
	MenuUp     key.Binding
	MenuDown   key.Binding
	MenuSelect key.Binding
	MenuClose  key.Binding
}

// NewKeyMap builds the key map from configured key names.
func NewKeyMap(kb config.Keybinds) KeyMap {
	return KeyMap{
		NextPage: key.NewBinding(
			key.WithKeys(kb.NextPage...),
			key.WithHelp("j/space", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys(kb.PrevPage...),
			key.WithHelp("k", "previous page"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys(kb.NextChapter...),
			key.WithHelp("n", "next chapter"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys(kb.PrevChapter...),
			key.WithHelp("p", "previous chapter"),
		),
		GotoStart: key.NewBinding(
			key.WithKeys(kb.GotoStart...),
			key.WithHelp("g", "start of chapter"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys(kb.GotoEnd...),
			key.WithHelp("G", "end of chapter"),
		),
		Contents: key.NewBinding(
			key.WithKeys(kb.Contents...),
			key.WithHelp("c", "contents"),
		),
		Back: key.NewBinding(
			key.WithKeys(kb.Back...),
			key.WithHelp("B", "back to previous position"),
		),
		Help: key.NewBinding(
			key.WithKeys(kb.Help...),
			key.WithHelp("h", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys(kb.Quit...),
			key.WithHelp("q", "quit"),
		),
		MenuUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		MenuDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MenuSelect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open chapter"),
		),
		MenuClose: key.NewBinding(
			key.WithKeys("esc", "q", "c"),
			key.WithHelp("esc", "close"),
		),
	}
}

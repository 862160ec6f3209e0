package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

const (
	sortKeys      = "12345"
	multiSortKeys = "!@#$%"
)

type keyMap struct {
	Sort       key.Binding
	MultiSort  key.Binding
	Filter     key.Binding
	Visibility key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Select     key.Binding
	Trade      key.Binding
	Info       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
	Cancel     key.Binding
	Confirm    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Sort:       key.NewBinding(key.WithKeys(strings.Split(sortKeys, "")...), key.WithHelp("1-5", "sort")),
		MultiSort:  key.NewBinding(key.WithKeys(strings.Split(multiSortKeys, "")...), key.WithHelp("shift+1-5", "add sort")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter exchanges")),
		Visibility: key.NewBinding(key.WithKeys("v"), key.WithHelp("v 1-5", "columns")),
		NextPage:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Trade:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Trade!")),
		Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "View more info.")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Filter, k.NextPage, k.PrevPage, k.Trade, k.Info, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Sort, k.MultiSort, k.Filter, k.Visibility},
		{k.NextPage, k.PrevPage, k.Select},
		{k.Trade, k.Info, k.Refresh},
		{k.Help, k.Quit},
	}
}

// columnSlot returns the zero based column slot addressed by a digit key, or -1.
func columnSlot(s, keys string) int {
	if len(s) != 1 {
		return -1
	}
	return strings.Index(keys, s)
}

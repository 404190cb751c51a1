package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevList     key.Binding
	NextList     key.Binding
	Add          key.Binding
	Edit         key.Binding
	Toggle       key.Binding
	Tags         key.Binding
	Priority     key.Binding
	Color        key.Binding
	Move         key.Binding
	Delete       key.Binding
	SoftDelete   key.Binding
	TopTag       key.Binding
	Search       key.Binding
	ClearFilters key.Binding
	NewList      key.Binding
	RenameList   key.Binding
	DeleteList   key.Binding
	Yank         key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PrevList:     key.NewBinding(key.WithKeys("h", "left", "shift+tab"), key.WithHelp("←/h", "prev list")),
		NextList:     key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("→/l", "next list")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Tags:         key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "tags")),
		Priority:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		Color:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
		Move:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to next list")),
		Delete:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete (x again to cancel)")),
		SoftDelete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "soft delete")),
		TopTag:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "top tags")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearFilters: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		NewList:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new list")),
		RenameList:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename list")),
		DeleteList:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete list")),
		Yank:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.TopTag, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevList, k.NextList},
		{k.Add, k.Edit, k.Toggle, k.Tags, k.Priority, k.Color, k.Move},
		{k.Delete, k.SoftDelete, k.Yank},
		{k.TopTag, k.Search, k.ClearFilters},
		{k.NewList, k.RenameList, k.DeleteList, k.Reload, k.Help, k.Quit},
	}
}

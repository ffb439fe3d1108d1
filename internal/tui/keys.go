package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"playcraft/internal/session"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Focus   key.Binding
	Open    key.Binding
	New     key.Binding
	Filter  key.Binding
	Toggle  key.Binding
	More    key.Binding
	Retry   key.Binding
	Clear   key.Binding
	Preview key.Binding
	Browser key.Binding
	Create  key.Binding
	Edit    key.Binding
	Remove  key.Binding
	Title   key.Binding
	Save    key.Binding
	Export  key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new playlist"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Clear: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear search"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Browser: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create playlist"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove"),
		),
		Title: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "rename"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export csv"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// enable turns on the bindings that apply to the screen and pane in focus
func (k *keyMap) enable(mode session.Mode, f focus) {
	all := []*key.Binding{
		&k.Up, &k.Down, &k.Focus, &k.Open, &k.New, &k.Filter, &k.Toggle,
		&k.More, &k.Retry, &k.Clear, &k.Preview, &k.Browser, &k.Create,
		&k.Edit, &k.Remove, &k.Title, &k.Save, &k.Export, &k.Back,
	}
	for _, b := range all {
		b.SetEnabled(false)
	}
	k.Quit.SetEnabled(true)
	k.Help.SetEnabled(true)

	on := func(bs ...*key.Binding) {
		for _, b := range bs {
			b.SetEnabled(true)
		}
	}

	switch mode := mode.(type) {
	case session.List:
		on(&k.Up, &k.Down, &k.Open, &k.New, &k.Filter, &k.Export)
	case session.Selecting:
		on(&k.Focus, &k.Back, &k.Create)
		k.Toggle.SetHelp("enter", "select")
		if f == focusResults {
			on(&k.Up, &k.Down, &k.Toggle, &k.More, &k.Retry, &k.Preview, &k.Browser)
		}
	case session.Detail:
		on(&k.Back, &k.Export)
		k.Toggle.SetHelp("enter", "add")
		switch {
		case !mode.Editing:
			on(&k.Up, &k.Down, &k.Edit, &k.Preview, &k.Browser)
		case f == focusMain:
			on(&k.Focus, &k.Up, &k.Down, &k.Remove, &k.Title, &k.Save, &k.Preview, &k.Browser)
		case f == focusResults:
			on(&k.Focus, &k.Up, &k.Down, &k.Toggle, &k.More, &k.Retry, &k.Clear, &k.Save, &k.Preview, &k.Browser)
		default:
			on(&k.Focus)
		}
	}

	// While typing, letters belong to the input.
	if f.typing() {
		k.Quit.SetKeys("ctrl+c")
		k.Quit.SetHelp("ctrl+c", "quit")
		k.Help.SetEnabled(false)
	} else {
		k.Quit.SetKeys("q", "ctrl+c")
		k.Quit.SetHelp("q", "quit")
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Toggle, k.New, k.Create, k.Edit, k.Save, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Open, k.Toggle},
		{k.New, k.Create, k.Edit, k.Remove, k.Title, k.Save},
		{k.Filter, k.More, k.Retry, k.Clear},
		{k.Preview, k.Browser, k.Export},
		{k.Back, k.Help, k.Quit},
	}
}

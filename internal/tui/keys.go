package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Choose key.Binding
	Start  key.Binding
	Replay key.Binding
	Menu   key.Binding
	Title  key.Binding
	Level  key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Choose: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Replay: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replay")),
		Menu:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "levels")),
		Title:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Level:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "level")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forPhase returns the keys that act in the given phase, in help order.
func (k keyMap) forPhase(p phaseKeys) []key.Binding {
	switch p {
	case keysTitle:
		return []key.Binding{k.Choose, k.Level, k.Quit}
	case keysMenu:
		return []key.Binding{k.Up, k.Down, k.Choose, k.Level, k.Title, k.Quit}
	case keysReady:
		return []key.Binding{k.Start, k.Menu, k.Title, k.Quit}
	case keysBoard:
		return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Choose, k.Title, k.Quit}
	default:
		return []key.Binding{k.Replay, k.Menu, k.Level, k.Title, k.Quit}
	}
}

type phaseKeys int

const (
	keysTitle phaseKeys = iota
	keysMenu
	keysReady
	keysBoard
	keysFinished
)

// phaseHelp adapts a phase's bindings to help.KeyMap.
type phaseHelp []key.Binding

func (h phaseHelp) ShortHelp() []key.Binding { return h }

func (h phaseHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds terminal keys to commands.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap uses arrows, vim keys, enter/space, esc and q/ctrl+c.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h", "backspace"), key.WithHelp("←/h", "back")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Enter: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/quit")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Translate maps a key press to a command. Unbound keys report false.
func (km KeyMap) Translate(msg tea.KeyMsg) (Key, bool) {
	switch {
	case key.Matches(msg, km.Quit):
		return KeyQuit, true
	case key.Matches(msg, km.Up):
		return KeyUp, true
	case key.Matches(msg, km.Down):
		return KeyDown, true
	case key.Matches(msg, km.Left):
		return KeyLeft, true
	case key.Matches(msg, km.Right):
		return KeyRight, true
	case key.Matches(msg, km.Enter):
		return KeyEnter, true
	case key.Matches(msg, km.Back):
		return KeyBack, true
	}
	return KeyNone, false
}

// Help lists the bindings in display order.
func (km KeyMap) Help() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Right, km.Left, km.Enter, km.Back, km.Quit}
}

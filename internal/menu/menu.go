// Package menu implements the pet's hierarchical menu: a sidebar with two
// submenus and a cursor that wraps around each list.
package menu

// State is the menu currently shown.
type State int

const (
	Main State = iota
	Actions
	Settings
)

func (s State) String() string {
	switch s {
	case Actions:
		return "Actions"
	case Settings:
		return "Settings"
	}
	return "Main"
}

// Action is the identifier dispatched when a leaf item is selected.
type Action string

const (
	Quit      Action = "quit"
	Dance     Action = "dance"
	Sit       Action = "sit"
	Sing      Action = "sing"
	Feed      Action = "feed"
	Play      Action = "play"
	GitStatus Action = "git_status"
	Decay     Action = "decay"
	ShowStats Action = "show_stats"
	Save      Action = "save"
)

// Item is one menu row. Exactly one of Action and Submenu is meaningful:
// HasSubmenu tells which.
type Item struct {
	Label      string
	Action     Action
	Submenu    State
	HasSubmenu bool
}

func leaf(label string, action Action) Item {
	return Item{Label: label, Action: action}
}

func branch(label string, sub State) Item {
	return Item{Label: label, Submenu: sub, HasSubmenu: true}
}

var tables = map[State][]Item{
	Main: {
		branch("Actions", Actions),
		branch("Settings", Settings),
		leaf("Exit", Quit),
	},
	Actions: {
		leaf("Dance", Dance),
		leaf("Sit", Sit),
		leaf("Sing", Sing),
		leaf("Feed", Feed),
		leaf("Play", Play),
	},
	Settings: {
		leaf("Git Status", GitStatus),
		leaf("Manual Decay", Decay),
		leaf("Show Stats", ShowStats),
		leaf("Save Now", Save),
	},
}

// Machine tracks the visible menu and the selection cursor.
type Machine struct {
	state  State
	cursor int
}

// New returns a machine on the main menu with the first item selected.
func New() *Machine {
	return &Machine{state: Main}
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Cursor() int  { return m.cursor }

// Items returns the rows of the current menu.
func (m *Machine) Items() []Item {
	items := tables[m.state]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Selected returns the item under the cursor.
func (m *Machine) Selected() Item {
	return tables[m.state][m.cursor]
}

func (m *Machine) Up() {
	n := len(tables[m.state])
	m.cursor = (m.cursor - 1 + n) % n
}

func (m *Machine) Down() {
	n := len(tables[m.state])
	m.cursor = (m.cursor + 1) % n
}

// Right enters the selected submenu. Leaf actions are ignored.
func (m *Machine) Right() {
	if item := m.Selected(); item.HasSubmenu {
		m.enter(item.Submenu)
	}
}

// Left returns to the main menu with the cursor on the entry that leads
// back to the submenu being left.
func (m *Machine) Left() {
	if m.state == Main {
		return
	}
	from := m.state
	m.state = Main
	m.cursor = 0
	for i, item := range tables[Main] {
		if item.HasSubmenu && item.Submenu == from {
			m.cursor = i
			break
		}
	}
}

// Select activates the item under the cursor. Submenus are entered and
// no action is returned; leaves return their action without moving.
func (m *Machine) Select() (Action, bool) {
	item := m.Selected()
	if item.HasSubmenu {
		m.enter(item.Submenu)
		return "", false
	}
	return item.Action, true
}

// Breadcrumb describes the current location, e.g. "Main › Actions".
func (m *Machine) Breadcrumb() string {
	if m.state == Main {
		return Main.String()
	}
	return Main.String() + " › " + m.state.String()
}

func (m *Machine) enter(s State) {
	m.state = s
	m.cursor = 0
}

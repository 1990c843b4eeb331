// Package input turns terminal key presses into menu commands and hands
// them from the terminal reader to the render loop.
package input

import "sync/atomic"

// Key is a discrete command understood by the render loop.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBack
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyBack:
		return "back"
	case KeyQuit:
		return "quit"
	}
	return "none"
}

// Mailbox holds at most one pending key. It is not a queue: a key written
// before the previous one was taken replaces it, so only the most recent
// key survives a tick. Delivery is neither ordered nor at-least-once.
//
// Put and Take may be called from different goroutines.
type Mailbox struct {
	slot atomic.Pointer[Key]
}

// Put stores k and reports whether an unconsumed key was overwritten.
func (m *Mailbox) Put(k Key) (dropped bool) {
	return m.slot.Swap(&k) != nil
}

// Take removes and returns the pending key, if any.
func (m *Mailbox) Take() (Key, bool) {
	p := m.slot.Swap(nil)
	if p == nil {
		return KeyNone, false
	}
	return *p, true
}

package pet

import (
	"strings"
	"time"
)

// Tricks a pet can pick up from its owner.
const (
	TrickDance = "dance"
	TrickSit   = "sit"
	TrickSing  = "sing"
)

// Feed restores health and happiness and settles hunger.
func (s *State) Feed(now time.Time) {
	s.Adjust(Happiness, 15)
	s.Adjust(Health, 10)
	s.Adjust(Hunger, -20)
	s.Adjust(NameClarity, 2)
	s.Adjust(BondLevel, 3)
	s.Interact(now)
}

// Play is the strongest bonding action.
func (s *State) Play(now time.Time) {
	s.Adjust(Happiness, 20)
	s.Adjust(BondLevel, 5)
	s.Adjust(NameClarity, 3)
	s.Interact(now)
}

// Dance reports whether the trick was learned by this call.
func (s *State) Dance(now time.Time) bool {
	learned := s.Learn(TrickDance)
	s.Adjust(Happiness, 10)
	s.Adjust(BondLevel, 4)
	s.Interact(now)
	return learned
}

// Sit reports whether the trick was learned by this call.
func (s *State) Sit(now time.Time) bool {
	learned := s.Learn(TrickSit)
	s.Interact(now)
	return learned
}

// Sing reports whether the trick was learned by this call.
func (s *State) Sing(now time.Time) bool {
	learned := s.Learn(TrickSing)
	s.Adjust(Happiness, 15)
	s.Interact(now)
	return learned
}

// DisplayName is the owner's name as the pet currently remembers it.
func (s *State) DisplayName() string {
	return blurName(s.owner, s.Get(NameClarity))
}

func blurName(name string, clarity int) string {
	runes := []rune(name)
	switch {
	case len(runes) == 0:
		return "???"
	case clarity >= 80:
		return name
	case clarity >= 50:
		keep := (len(runes) + 1) / 2
		return string(runes[:keep]) + strings.Repeat("_", len(runes)-keep)
	case clarity >= 20:
		return string(runes[:1]) + strings.Repeat("_", len(runes)-1)
	default:
		return "???"
	}
}

// Package pet holds the life-simulation record of a memory pet.
//
// Every percentage the pet carries lives in [0,100]. Values are clamped
// before they are stored, so there is no way to observe an out-of-range
// level through this package's API.
package pet

import (
	"strings"
	"time"
)

const (
	DefaultName  = "Buddy"
	DefaultOwner = "Friend"
)

// Field names one of the clamped percentage levels of a pet.
type Field int

const (
	Happiness Field = iota
	Health
	Hunger
	BondLevel
	NameClarity
	FileCorruption
	fieldCount
)

// Fields lists every percentage field in display order.
var Fields = []Field{Happiness, Health, Hunger, BondLevel, NameClarity, FileCorruption}

func (f Field) String() string {
	switch f {
	case Happiness:
		return "happiness"
	case Health:
		return "health"
	case Hunger:
		return "hunger"
	case BondLevel:
		return "bond_level"
	case NameClarity:
		return "name_clarity"
	case FileCorruption:
		return "file_corruption"
	}
	return "unknown"
}

// freshLevels are the levels of a newly hatched pet.
var freshLevels = [fieldCount]int{
	Happiness:      70,
	Health:         100,
	Hunger:         30,
	BondLevel:      50,
	NameClarity:    80,
	FileCorruption: 0,
}

// State is the full record of one pet. Name, owner and creation time are
// fixed at construction.
type State struct {
	name      string
	owner     string
	createdAt time.Time

	levels       [fieldCount]int
	interactions uint
	tricks       []string

	LastInteraction time.Time
	LastCommit      time.Time
	LastSave        time.Time
}

// New hatches a pet with baseline levels.
func New(name, owner string, now time.Time) *State {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = DefaultOwner
	}
	return &State{
		name:            name,
		owner:           owner,
		createdAt:       now,
		levels:          freshLevels,
		LastInteraction: now,
		LastCommit:      now,
	}
}

func (s *State) Name() string         { return s.name }
func (s *State) Owner() string        { return s.owner }
func (s *State) CreatedAt() time.Time { return s.createdAt }

// Get returns the current value of f.
func (s *State) Get(f Field) int {
	if f < 0 || f >= fieldCount {
		return 0
	}
	return s.levels[f]
}

// Set stores v for f after clamping it to [0,100].
func (s *State) Set(f Field, v int) {
	if f < 0 || f >= fieldCount {
		return
	}
	s.levels[f] = Clamp(v)
}

// Adjust moves f by delta and returns the stored, clamped value.
func (s *State) Adjust(f Field, delta int) int {
	s.Set(f, s.Get(f)+delta)
	return s.Get(f)
}

// Interactions is the number of care actions the pet has received.
func (s *State) Interactions() uint { return s.interactions }

// Interact counts one care action and stamps the interaction time.
func (s *State) Interact(now time.Time) {
	s.interactions++
	s.LastInteraction = now
}

// Learn adds trick to the learned set. It reports false when the pet
// already knew it.
func (s *State) Learn(trick string) bool {
	trick = strings.ToLower(strings.TrimSpace(trick))
	if trick == "" || s.Knows(trick) {
		return false
	}
	s.tricks = append(s.tricks, trick)
	return true
}

// Knows reports whether trick has been learned.
func (s *State) Knows(trick string) bool {
	trick = strings.ToLower(strings.TrimSpace(trick))
	for _, t := range s.tricks {
		if t == trick {
			return true
		}
	}
	return false
}

// Tricks returns learned tricks in the order they were learned.
func (s *State) Tricks() []string {
	out := make([]string, len(s.tricks))
	copy(out, s.tricks)
	return out
}

// Clamp bounds v to [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

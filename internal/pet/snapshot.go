package pet

import "time"

// Snapshot is a plain copy of a State used for persistence and rendering.
type Snapshot struct {
	Name      string
	Owner     string
	CreatedAt time.Time

	Happiness      int
	Health         int
	Hunger         int
	BondLevel      int
	NameClarity    int
	FileCorruption int

	InteractionCount uint
	LearnedTricks    []string

	LastInteraction time.Time
	LastCommit      time.Time
	LastSave        time.Time
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Name:             s.name,
		Owner:            s.owner,
		CreatedAt:        s.createdAt,
		Happiness:        s.levels[Happiness],
		Health:           s.levels[Health],
		Hunger:           s.levels[Hunger],
		BondLevel:        s.levels[BondLevel],
		NameClarity:      s.levels[NameClarity],
		FileCorruption:   s.levels[FileCorruption],
		InteractionCount: s.interactions,
		LearnedTricks:    s.Tricks(),
		LastInteraction:  s.LastInteraction,
		LastCommit:       s.LastCommit,
		LastSave:         s.LastSave,
	}
}

// FromSnapshot rebuilds a State. Levels are clamped and duplicate tricks
// are dropped, so a hand-edited save cannot break the invariants.
func FromSnapshot(snap Snapshot) *State {
	s := New(snap.Name, snap.Owner, snap.CreatedAt)
	s.Set(Happiness, snap.Happiness)
	s.Set(Health, snap.Health)
	s.Set(Hunger, snap.Hunger)
	s.Set(BondLevel, snap.BondLevel)
	s.Set(NameClarity, snap.NameClarity)
	s.Set(FileCorruption, snap.FileCorruption)
	s.interactions = snap.InteractionCount
	for _, trick := range snap.LearnedTricks {
		s.Learn(trick)
	}
	s.LastInteraction = snap.LastInteraction
	s.LastCommit = snap.LastCommit
	s.LastSave = snap.LastSave
	return s
}

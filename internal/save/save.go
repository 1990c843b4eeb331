// Package save persists a pet to a JSON file in the project directory.
//
// The file layout matches the one written by earlier releases (snake_case
// keys, unix-second timestamps). Every key is optional on load; anything
// missing takes the value a freshly hatched pet would have.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kingrea/memory-pet/internal/pet"
)

// DefaultFile is the save file name inside the pet directory.
const DefaultFile = "pet_save.json"

var (
	// ErrNoSave is returned by Load when no save file exists.
	ErrNoSave = errors.New("save: no saved pet")
	// ErrCorrupt wraps decode failures.
	ErrCorrupt = errors.New("save: corrupt save file")
)

type record struct {
	PetName         string        `json:"pet_name,omitempty"`
	OwnerName       string        `json:"owner_name,omitempty"`
	CreationTime    *float64      `json:"creation_time,omitempty"`
	PetMemory       *petMemory    `json:"pet_memory,omitempty"`
	Stats           *stats        `json:"stats,omitempty"`
	PlayerMemory    *playerMemory `json:"player_memory,omitempty"`
	LastInteraction *float64      `json:"last_interaction,omitempty"`
	LastCommit      *float64      `json:"last_commit,omitempty"`
	LastSaveTime    *float64      `json:"last_save_time,omitempty"`
}

type petMemory struct {
	BondLevel        *float64 `json:"bond_level,omitempty"`
	NameClarity      *float64 `json:"name_clarity,omitempty"`
	InteractionCount *float64 `json:"interaction_count,omitempty"`
	LearnedTricks    []string `json:"learned_tricks"`
}

type stats struct {
	Happiness *float64 `json:"happiness,omitempty"`
	Health    *float64 `json:"health,omitempty"`
	Hunger    *float64 `json:"hunger,omitempty"`
}

type playerMemory struct {
	FileCorruption *float64 `json:"file_corruption,omitempty"`
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for save stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store reads and writes one save file.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store backed by path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Exists reports whether a save file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reconstructs the saved pet.
func (s *Store) Load() (*pet.State, error) {
	rec, err := s.read()
	if err != nil {
		return nil, err
	}
	return rec.state(s.now()), nil
}

// Save writes st and stamps st.LastSave. The write goes through a temp file
// so a crash never leaves a half-written save behind.
func (s *Store) Save(st *pet.State) error {
	if st == nil {
		return fmt.Errorf("save: nil pet")
	}
	now := s.now()
	snap := st.Snapshot()
	snap.LastSave = now
	data, err := json.MarshalIndent(fromSnapshot(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pet_save-*.json")
	if err != nil {
		return fmt.Errorf("save: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save: replace %s: %w", s.path, err)
	}
	st.LastSave = now
	return nil
}

// HoursSinceLastSave reports the time since the persisted save stamp, or 0
// when there is no usable save.
func (s *Store) HoursSinceLastSave() float64 {
	rec, err := s.read()
	if err != nil || rec.LastSaveTime == nil {
		return 0
	}
	return hoursBetween(fromUnix(*rec.LastSaveTime), s.now())
}

// hoursBetween is the non-negative number of hours from then to now.
func hoursBetween(then, now time.Time) float64 {
	if then.IsZero() {
		return 0
	}
	return math.Max(0, now.Sub(then).Hours())
}

func (s *Store) read() (*record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("save: read %s: %w", s.path, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &rec, nil
}

func (r *record) state(now time.Time) *pet.State {
	created := now
	if r.CreationTime != nil {
		created = fromUnix(*r.CreationTime)
	}
	snap := pet.New(r.PetName, r.OwnerName, created).Snapshot()
	if m := r.PetMemory; m != nil {
		setLevel(&snap.BondLevel, m.BondLevel)
		setLevel(&snap.NameClarity, m.NameClarity)
		if m.InteractionCount != nil && *m.InteractionCount > 0 {
			snap.InteractionCount = uint(math.Round(*m.InteractionCount))
		}
		snap.LearnedTricks = m.LearnedTricks
	}
	if st := r.Stats; st != nil {
		setLevel(&snap.Happiness, st.Happiness)
		setLevel(&snap.Health, st.Health)
		setLevel(&snap.Hunger, st.Hunger)
	}
	if p := r.PlayerMemory; p != nil {
		setLevel(&snap.FileCorruption, p.FileCorruption)
	}
	snap.LastInteraction = timeOr(r.LastInteraction, now)
	snap.LastCommit = timeOr(r.LastCommit, now)
	if r.LastSaveTime != nil {
		snap.LastSave = fromUnix(*r.LastSaveTime)
	}
	return pet.FromSnapshot(snap)
}

func fromSnapshot(snap pet.Snapshot) record {
	tricks := snap.LearnedTricks
	if tricks == nil {
		tricks = []string{}
	}
	return record{
		PetName:      snap.Name,
		OwnerName:    snap.Owner,
		CreationTime: unix(snap.CreatedAt),
		PetMemory: &petMemory{
			BondLevel:        number(snap.BondLevel),
			NameClarity:      number(snap.NameClarity),
			InteractionCount: number(int(snap.InteractionCount)),
			LearnedTricks:    tricks,
		},
		Stats: &stats{
			Happiness: number(snap.Happiness),
			Health:    number(snap.Health),
			Hunger:    number(snap.Hunger),
		},
		PlayerMemory:    &playerMemory{FileCorruption: number(snap.FileCorruption)},
		LastInteraction: unix(snap.LastInteraction),
		LastCommit:      unix(snap.LastCommit),
		LastSaveTime:    unix(snap.LastSave),
	}
}

// setLevel rounds a stored level. Older saves may hold fractional values;
// the pet clamps the result to its range.
func setLevel(dst *int, src *float64) {
	if src != nil && !math.IsNaN(*src) {
		*dst = int(math.Round(math.Max(-1e6, math.Min(1e6, *src))))
	}
}

func number(v int) *float64 {
	f := float64(v)
	return &f
}

func timeOr(v *float64, fallback time.Time) time.Time {
	if v == nil {
		return fallback
	}
	return fromUnix(*v)
}

func unix(t time.Time) *float64 {
	v := float64(t.UnixNano()) / float64(time.Second)
	return &v
}

func fromUnix(v float64) time.Time {
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

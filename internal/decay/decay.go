// Package decay reconciles time spent away from the pet against the
// owner's commit cadence.
package decay

import (
	"math"

	"github.com/kingrea/memory-pet/internal/pet"
)

// Kind identifies which branch a reconciliation took.
type Kind int

const (
	KindNone Kind = iota
	KindDecay
	KindReward
)

func (k Kind) String() string {
	switch k {
	case KindDecay:
		return "decay"
	case KindReward:
		return "reward"
	}
	return "none"
}

// Policy holds the rates used by Reconcile.
type Policy struct {
	// GraceHours is the absence treated as the same session.
	GraceHours float64 `yaml:"grace_hours"`

	BondPerHour       float64 `yaml:"bond_per_hour"`
	ClarityPerHour    float64 `yaml:"clarity_per_hour"`
	CorruptionPerHour float64 `yaml:"corruption_per_hour"`

	RewardBond       int `yaml:"reward_bond"`
	RewardClarity    int `yaml:"reward_clarity"`
	RewardCorruption int `yaml:"reward_corruption"`
}

// DefaultPolicy returns the stock rates.
func DefaultPolicy() Policy {
	return Policy{
		GraceHours:        0.1,
		BondPerHour:       2,
		ClarityPerHour:    3,
		CorruptionPerHour: 2.5,
		RewardBond:        5,
		RewardClarity:     10,
		RewardCorruption:  10,
	}
}

// Outcome records what a reconciliation applied.
type Outcome struct {
	Kind       Kind
	Hours      float64
	Bond       int
	Clarity    int
	Corruption int
}

// Changed reports whether any level actually moved.
func (o Outcome) Changed() bool {
	return o.Bond != 0 || o.Clarity != 0 || o.Corruption != 0
}

// Reconcile applies decay when no commit happened during the absence and a
// reward otherwise. Absences within the grace window are ignored.
func (p Policy) Reconcile(hoursAway, hoursSinceCommit float64, s *pet.State) Outcome {
	if s == nil || math.IsNaN(hoursAway) || hoursAway <= p.GraceHours {
		return Outcome{Kind: KindNone, Hours: hoursAway}
	}
	if hoursSinceCommit > hoursAway {
		return p.Simulate(hoursAway, s)
	}
	return p.reward(hoursAway, s)
}

// Simulate applies the decay path for hours regardless of commits.
func (p Policy) Simulate(hours float64, s *pet.State) Outcome {
	out := Outcome{Kind: KindDecay, Hours: hours}
	if s == nil || !(hours > 0) {
		return out
	}
	out.Bond = apply(s, pet.BondLevel, -loss(hours, p.BondPerHour))
	out.Clarity = apply(s, pet.NameClarity, -loss(hours, p.ClarityPerHour))
	out.Corruption = apply(s, pet.FileCorruption, loss(hours, p.CorruptionPerHour))
	return out
}

func (p Policy) reward(hours float64, s *pet.State) Outcome {
	return Outcome{
		Kind:       KindReward,
		Hours:      hours,
		Bond:       apply(s, pet.BondLevel, p.RewardBond),
		Clarity:    apply(s, pet.NameClarity, p.RewardClarity),
		Corruption: apply(s, pet.FileCorruption, -p.RewardCorruption),
	}
}

// loss is floor(hours*rate), capped so it never overflows an int.
func loss(hours, rate float64) int {
	if !(rate > 0) {
		return 0
	}
	v := math.Floor(hours * rate)
	if v > 100 || math.IsInf(v, 1) {
		return 100
	}
	return int(v)
}

// apply adjusts f and returns the delta that was actually stored.
func apply(s *pet.State, f pet.Field, delta int) int {
	before := s.Get(f)
	return s.Adjust(f, delta) - before
}

package pet

import (
	"math/rand"
	"testing"
	"time"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewDefaults(t *testing.T) {
	s := New("", "  ", epoch)
	if s.Name() != DefaultName || s.Owner() != DefaultOwner {
		t.Fatalf("names = %q/%q, want defaults", s.Name(), s.Owner())
	}
	if got := s.Get(BondLevel); got != 50 {
		t.Fatalf("bond = %d, want 50", got)
	}
	if !s.CreatedAt().Equal(epoch) {
		t.Fatalf("created at = %v, want %v", s.CreatedAt(), epoch)
	}
}

func TestAdjustClamps(t *testing.T) {
	s := New("Buddy", "Ada", epoch)
	if got := s.Adjust(Happiness, 1000); got != 100 {
		t.Fatalf("happiness = %d, want 100", got)
	}
	if got := s.Adjust(FileCorruption, -5); got != 0 {
		t.Fatalf("corruption = %d, want 0", got)
	}
	s.Set(Hunger, -40)
	if got := s.Get(Hunger); got != 0 {
		t.Fatalf("hunger = %d, want 0", got)
	}
}

func TestRandomOperationsStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New("Buddy", "Ada", epoch)
	ops := []func(){
		func() { s.Feed(epoch) },
		func() { s.Play(epoch) },
		func() { s.Dance(epoch) },
		func() { s.Sit(epoch) },
		func() { s.Sing(epoch) },
		func() { s.Adjust(Fields[rng.Intn(len(Fields))], rng.Intn(401)-200) },
		func() { s.Set(Fields[rng.Intn(len(Fields))], rng.Intn(1001)-500) },
	}
	for i := 0; i < 5000; i++ {
		ops[rng.Intn(len(ops))]()
		for _, f := range Fields {
			if v := s.Get(f); v < 0 || v > 100 {
				t.Fatalf("step %d: %s = %d out of range", i, f, v)
			}
		}
	}
}

func TestDanceLearnsOnce(t *testing.T) {
	s := New("Buddy", "Ada", epoch)
	if !s.Dance(epoch) {
		t.Fatalf("first dance should learn the trick")
	}
	if s.Dance(epoch) {
		t.Fatalf("second dance should not learn again")
	}
	tricks := s.Tricks()
	if len(tricks) != 1 || tricks[0] != TrickDance {
		t.Fatalf("tricks = %v, want [dance]", tricks)
	}
	if s.Interactions() != 2 {
		t.Fatalf("interactions = %d, want 2", s.Interactions())
	}
}

func TestFromSnapshotRepairsInvariants(t *testing.T) {
	snap := New("Buddy", "Ada", epoch).Snapshot()
	snap.Happiness = 250
	snap.FileCorruption = -3
	snap.LearnedTricks = []string{"sit", "Sit", "dance", "sit"}
	s := FromSnapshot(snap)
	if s.Get(Happiness) != 100 || s.Get(FileCorruption) != 0 {
		t.Fatalf("levels not clamped: %+v", s.Snapshot())
	}
	if got := s.Tricks(); len(got) != 2 {
		t.Fatalf("tricks = %v, want two unique entries", got)
	}
}

func TestTricksReturnsCopy(t *testing.T) {
	s := New("Buddy", "Ada", epoch)
	s.Learn("sit")
	tricks := s.Tricks()
	tricks[0] = "mutated"
	if !s.Knows("sit") {
		t.Fatalf("caller mutation leaked into state")
	}
}

func TestDisplayNameBlursWithClarity(t *testing.T) {
	cases := []struct {
		clarity int
		want    string
	}{
		{100, "Grace"},
		{80, "Grace"},
		{60, "Gra__"},
		{30, "G____"},
		{5, "???"},
	}
	for _, tc := range cases {
		s := New("Buddy", "Grace", epoch)
		s.Set(NameClarity, tc.clarity)
		if got := s.DisplayName(); got != tc.want {
			t.Errorf("clarity %d: got %q, want %q", tc.clarity, got, tc.want)
		}
	}
}

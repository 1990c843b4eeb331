package game

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/memory-pet/internal/decay"
	"github.com/kingrea/memory-pet/internal/gitinfo"
	"github.com/kingrea/memory-pet/internal/journal"
	"github.com/kingrea/memory-pet/internal/menu"
	"github.com/kingrea/memory-pet/internal/pet"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	state     *pet.State
	loadErr   error
	saveErr   error
	hoursAway float64
	saves     int
}

func (m *memStore) Exists() bool { return m.state != nil || m.loadErr != nil }

func (m *memStore) Load() (*pet.State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return pet.FromSnapshot(m.state.Snapshot()), nil
}

func (m *memStore) Save(st *pet.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = pet.FromSnapshot(st.Snapshot())
	return nil
}

func (m *memStore) HoursSinceLastSave() float64 { return m.hoursAway }

type fakeCommits struct {
	repo   bool
	commit *gitinfo.Commit
}

func (f fakeCommits) Name() string                      { return "memory-pet" }
func (f fakeCommits) IsRepository(context.Context) bool { return f.repo }
func (f fakeCommits) LatestCommit(context.Context) (gitinfo.Commit, error) {
	if !f.repo {
		return gitinfo.Commit{}, gitinfo.ErrNotRepository
	}
	if f.commit == nil {
		return gitinfo.Commit{}, gitinfo.ErrNoCommits
	}
	return *f.commit, nil
}

func (f fakeCommits) HoursSinceLastCommit(context.Context) float64 {
	if f.commit == nil {
		return math.Inf(1)
	}
	return now.Sub(f.commit.When).Hours()
}

func committed(hoursAgo float64) fakeCommits {
	when := now.Add(-time.Duration(hoursAgo * float64(time.Hour)))
	return fakeCommits{repo: true, commit: &gitinfo.Commit{Message: "wip", Author: "Ada", When: when, TimeAgo: "a while ago", Total: 3}}
}

func newSession(t *testing.T, store *memStore, commits Commits) *Session {
	t.Helper()
	j, err := journal.OpenMemory()
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return NewSession(Deps{
		Store:   store,
		Commits: commits,
		Journal: j,
		Policy:  decay.DefaultPolicy(),
		PetName: "Buddy",
		Now:     func() time.Time { return now },
	})
}

func savedPet() *memStore {
	return &memStore{state: pet.New("Buddy", "Ada", now.Add(-72*time.Hour)), hoursAway: 10}
}

func TestFirstLaunchAsksForOwner(t *testing.T) {
	store := &memStore{}
	s := newSession(t, store, committed(1))
	s.Start(context.Background())
	if !s.NeedsOwner() {
		t.Fatalf("expected first launch to need an owner")
	}
	notice := s.Adopt(context.Background(), "Grace")
	if s.NeedsOwner() || s.State().Owner() != "Grace" {
		t.Fatalf("adopt did not set owner")
	}
	if notice.Tone != ToneSuccess || store.saves != 1 {
		t.Fatalf("adopt should save once: notice %+v saves %d", notice, store.saves)
	}
}

func TestStartDecaysWithoutCommits(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, committed(20))
	notices := s.Start(context.Background())
	if s.NeedsOwner() {
		t.Fatalf("loaded pet should not need an owner")
	}
	if got := s.State().Get(pet.BondLevel); got >= 50 {
		t.Fatalf("bond = %d, want decay below 50", got)
	}
	if !hasNotice(notices, "memory is fading") {
		t.Fatalf("notices = %+v, want fading warning", notices)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want reconcile to persist once", store.saves)
	}
}

func TestStartRewardsCommits(t *testing.T) {
	store := savedPet()
	store.state.Set(pet.FileCorruption, 30)
	s := newSession(t, store, committed(2))
	notices := s.Start(context.Background())
	if got := s.State().Get(pet.FileCorruption); got != 20 {
		t.Fatalf("corruption = %d, want 20", got)
	}
	if !hasNotice(notices, "You made commits") {
		t.Fatalf("notices = %+v, want reward", notices)
	}
}

func TestStartWithoutRepositorySkipsDecay(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, fakeCommits{})
	notices := s.Start(context.Background())
	if got := s.State().Get(pet.BondLevel); got != 50 {
		t.Fatalf("bond = %d, want untouched 50", got)
	}
	if !hasNotice(notices, "Not a git repo") {
		t.Fatalf("notices = %+v, want repo warning", notices)
	}
	if store.saves != 0 {
		t.Fatalf("no decay means no reconcile save, got %d", store.saves)
	}
}

func TestStartWithCorruptSaveStartsFresh(t *testing.T) {
	store := &memStore{loadErr: errors.New("save: corrupt save file")}
	s := newSession(t, store, committed(1))
	notices := s.Start(context.Background())
	if s.State() == nil || s.State().Get(pet.BondLevel) != 50 {
		t.Fatalf("expected a fresh pet")
	}
	if !hasNotice(notices, "starting fresh") {
		t.Fatalf("notices = %+v, want fresh-start notice", notices)
	}
}

func TestDispatchDanceLearnsOnce(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, committed(1))
	s.Start(context.Background())
	first := s.Dispatch(context.Background(), menu.Dance)
	second := s.Dispatch(context.Background(), menu.Dance)
	if !strings.Contains(first.Message, "learned to dance") || first.Animate != "dance" {
		t.Fatalf("first = %+v", first)
	}
	if strings.Contains(second.Message, "learned") {
		t.Fatalf("second dance should not relearn: %+v", second)
	}
	if tricks := s.State().Tricks(); len(tricks) != 1 {
		t.Fatalf("tricks = %v", tricks)
	}
	if store.saves < 2 {
		t.Fatalf("each care action should save, got %d", store.saves)
	}
	memories := s.RecentMemories(context.Background(), 5)
	if len(memories) == 0 || !strings.Contains(memories[0], "dance") {
		t.Fatalf("memories = %v", memories)
	}
}

func TestDispatchNonMutatingActions(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, committed(1))
	s.Start(context.Background())
	before := store.saves
	if res := s.Dispatch(context.Background(), menu.GitStatus); !strings.Contains(res.Message, "3 commits") {
		t.Fatalf("git status = %q", res.Message)
	}
	if res := s.Dispatch(context.Background(), menu.ShowStats); !strings.Contains(res.Message, "Interactions: 0") {
		t.Fatalf("stats = %q", res.Message)
	}
	if store.saves != before {
		t.Fatalf("read-only actions saved the pet")
	}
	if res := s.Dispatch(context.Background(), menu.Quit); !res.Quit {
		t.Fatalf("quit result = %+v", res)
	}
}

func TestDispatchManualDecay(t *testing.T) {
	s := newSession(t, savedPet(), fakeCommits{})
	s.Start(context.Background())
	res := s.Dispatch(context.Background(), menu.Decay)
	if res.Animate != "" || res.Tone != ToneWarning {
		t.Fatalf("decay result = %+v", res)
	}
	if got := s.State().Get(pet.FileCorruption); got != 25 {
		t.Fatalf("corruption = %d, want 25", got)
	}
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, committed(1))
	s.Start(context.Background())
	store.saveErr = errors.New("disk full")
	res := s.Dispatch(context.Background(), menu.Feed)
	if res.Tone != ToneWarning || !strings.Contains(res.Message, "save failed") {
		t.Fatalf("feed result = %+v", res)
	}
	if res := s.Dispatch(context.Background(), menu.Save); res.Tone != ToneDanger {
		t.Fatalf("manual save result = %+v", res)
	}
	if s.State().Interactions() != 1 {
		t.Fatalf("in-memory state should keep the feed")
	}
}

func TestCloseSavesAndReminds(t *testing.T) {
	store := savedPet()
	s := newSession(t, store, committed(30))
	s.Start(context.Background())
	before := store.saves
	notices := s.Close(context.Background())
	if store.saves != before+1 {
		t.Fatalf("close should save once")
	}
	if !hasNotice(notices, "since last commit") {
		t.Fatalf("notices = %+v, want commit reminder", notices)
	}
	if again := s.Close(context.Background()); again != nil {
		t.Fatalf("second close should be a no-op")
	}
}

func TestAbandonedNamingSavesNothing(t *testing.T) {
	store := &memStore{}
	s := newSession(t, store, committed(1))
	s.Start(context.Background())
	notices := s.Close(context.Background())
	if store.saves != 0 || store.Exists() {
		t.Fatalf("saves = %d, closing before adoption must not write a pet", store.saves)
	}
	if hasNotice(notices, "saved successfully") {
		t.Fatalf("notices = %+v, should not claim a save", notices)
	}

	next := newSession(t, store, committed(1))
	next.Start(context.Background())
	if !next.NeedsOwner() {
		t.Fatalf("second launch should ask for the owner again")
	}
}

func TestParseCommand(t *testing.T) {
	cases := map[string]menu.Action{
		"feed":    menu.Feed,
		" Dance ": menu.Dance,
		"status":  menu.ShowStats,
		"exit":    menu.Quit,
		"decay":   menu.Decay,
		"save":    menu.Save,
	}
	for in, want := range cases {
		if got, ok := ParseCommand(in); !ok || got != want {
			t.Errorf("ParseCommand(%q) = %q/%v, want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseCommand("juggle"); ok {
		t.Errorf("unknown command should not parse")
	}
}

func hasNotice(notices []Notice, fragment string) bool {
	for _, n := range notices {
		if strings.Contains(n.Text, fragment) {
			return true
		}
	}
	return false
}

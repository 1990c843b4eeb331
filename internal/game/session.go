// Package game wires the pet's state to its collaborators: the save file,
// the git history it watches and the journal. The render loop drives a
// Session; nothing in here touches the terminal.
package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kingrea/memory-pet/internal/decay"
	"github.com/kingrea/memory-pet/internal/gitinfo"
	"github.com/kingrea/memory-pet/internal/journal"
	"github.com/kingrea/memory-pet/internal/logbook"
	"github.com/kingrea/memory-pet/internal/pet"
	"github.com/kingrea/memory-pet/internal/save"
)

// commitWarnHours triggers the goodbye reminder to commit.
const commitWarnHours = 12

// Store persists the pet between sessions.
type Store interface {
	Exists() bool
	Load() (*pet.State, error)
	Save(*pet.State) error
	HoursSinceLastSave() float64
}

// Commits reports on the repository the pet watches.
type Commits interface {
	Name() string
	IsRepository(ctx context.Context) bool
	LatestCommit(ctx context.Context) (gitinfo.Commit, error)
	HoursSinceLastCommit(ctx context.Context) float64
}

// Journal records what happened to the pet.
type Journal interface {
	Record(ctx context.Context, e journal.Event) (journal.Event, error)
	Recent(ctx context.Context, n int) ([]journal.Event, error)
	Counts(ctx context.Context) (map[journal.Kind]int, error)
}

// Tone colors a message.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarning
	ToneDanger
)

// Notice is a message for the owner.
type Notice struct {
	Text string
	Tone Tone
}

// CommitStatus is a snapshot of the watched repository.
type CommitStatus struct {
	Tracking  bool
	Commit    gitinfo.Commit
	HasCommit bool
}

// Deps are the collaborators of a Session. Journal and Log may be nil.
type Deps struct {
	Store   Store
	Commits Commits
	Journal Journal
	Log     *logbook.Logbook
	Policy  decay.Policy
	PetName string
	Now     func() time.Time
}

// Session owns the pet for one run of the program. It is not safe for
// concurrent use; the render loop is its only caller.
type Session struct {
	store   Store
	commits Commits
	journal Journal
	log     *logbook.Logbook
	policy  decay.Policy
	petName string
	now     func() time.Time

	state      *pet.State
	needsOwner bool
	repo       CommitStatus
	started    bool
	closed     bool
}

// NewSession prepares a session. Call Start before anything else.
func NewSession(d Deps) *Session {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:   d.Store,
		commits: d.Commits,
		journal: d.Journal,
		log:     d.Log,
		policy:  d.Policy,
		petName: d.PetName,
		now:     now,
	}
}

// State exposes the pet. Callers must not retain it across ticks on
// another goroutine.
func (s *Session) State() *pet.State { return s.state }

// NeedsOwner reports whether this is a first launch waiting for a name.
func (s *Session) NeedsOwner() bool { return s.needsOwner }

// Repo returns the last known repository status.
func (s *Session) Repo() CommitStatus { return s.repo }

// Start loads the pet and reconciles the time spent away against the
// commit history. The returned notices describe what happened.
func (s *Session) Start(ctx context.Context) []Notice {
	now := s.now()
	var notices []Notice
	s.started = true

	s.repo = s.ProbeCommits(ctx)
	if s.repo.Tracking {
		line := fmt.Sprintf("📁 Tracking commits in: %s", s.commits.Name())
		if s.repo.HasCommit {
			line += fmt.Sprintf(" · ⏰ last commit: %s (%s)", s.repo.Commit.Message, s.repo.Commit.TimeAgo)
		}
		notices = append(notices, Notice{Text: line, Tone: ToneInfo})
	} else {
		notices = append(notices, Notice{Text: "⚠️  Not a git repo! Pet won't decay.", Tone: ToneWarning})
		s.logWarn("Repository unavailable; decay disabled for this session")
	}

	loaded := false
	if s.store.Exists() {
		st, err := s.store.Load()
		if err != nil {
			notices = append(notices, Notice{Text: fmt.Sprintf("💾 Save file unreadable, starting fresh: %v", err), Tone: ToneDanger})
			s.logError("Load failed: %v", err)
			s.state = pet.New(s.petName, "", now)
		} else {
			s.state = st
			loaded = true
			s.logInfo("Loaded %s (bond %d, clarity %d, corruption %d)",
				st.Name(), st.Get(pet.BondLevel), st.Get(pet.NameClarity), st.Get(pet.FileCorruption))
		}
	} else {
		s.state = pet.New(s.petName, "", now)
		s.needsOwner = true
		s.logInfo("No save found; hatching %s", s.state.Name())
	}
	if s.repo.HasCommit {
		s.state.LastCommit = s.repo.Commit.When
	}

	if loaded {
		notices = append(notices, s.reconcile(ctx)...)
	}
	s.record(ctx, journal.KindSession, "session opened")
	return notices
}

func (s *Session) reconcile(ctx context.Context) []Notice {
	hoursAway := s.store.HoursSinceLastSave()
	var notices []Notice
	if hoursAway > s.policy.GraceHours {
		notices = append(notices, Notice{Text: fmt.Sprintf("⏰ You've been away for %.1f hours...", hoursAway), Tone: ToneWarning})
	}
	if !s.repo.Tracking {
		return notices
	}
	hoursNoCommit := s.commits.HoursSinceLastCommit(ctx)
	out := s.policy.Reconcile(hoursAway, hoursNoCommit, s.state)
	switch out.Kind {
	case decay.KindDecay:
		notices = append(notices, Notice{
			Text: fmt.Sprintf("💔 No commits for %s! Pet's memory is fading...", formatHours(hoursNoCommit)),
			Tone: ToneDanger,
		})
		s.logWarn("Decay after %.1fh away: %s", hoursAway, describe(out))
		s.record(ctx, journal.KindDecay, fmt.Sprintf("%.1fh away without commits", hoursAway))
	case decay.KindReward:
		notices = append(notices, Notice{Text: "✅ You made commits! Pet remembers you better!", Tone: ToneSuccess})
		s.logInfo("Reward after %.1fh away: %s", hoursAway, describe(out))
		s.record(ctx, journal.KindReward, fmt.Sprintf("committed during %.1fh away", hoursAway))
	default:
		return notices
	}
	if err := s.store.Save(s.state); err != nil {
		s.logError("Save after reconcile failed: %v", err)
	}
	return notices
}

// Adopt names the owner on first launch and writes the first save.
func (s *Session) Adopt(ctx context.Context, owner string) Notice {
	s.state = pet.New(s.state.Name(), owner, s.state.CreatedAt())
	if s.repo.HasCommit {
		s.state.LastCommit = s.repo.Commit.When
	}
	s.needsOwner = false
	s.logInfo("Adopted by %s", s.state.Owner())
	s.record(ctx, journal.KindSession, "adopted by "+s.state.Owner())
	text := fmt.Sprintf("🐣 %s hatched! Commit code to keep its memory of you alive, %s.", s.state.Name(), s.state.Owner())
	if err := s.store.Save(s.state); err != nil {
		s.logError("First save failed: %v", err)
		return Notice{Text: text + " (save failed)", Tone: ToneWarning}
	}
	return Notice{Text: text, Tone: ToneSuccess}
}

// ProbeCommits asks git for the current repository status. It only reads
// from the commit provider, so it may run off the render goroutine.
func (s *Session) ProbeCommits(ctx context.Context) CommitStatus {
	if s.commits == nil || !s.commits.IsRepository(ctx) {
		return CommitStatus{}
	}
	status := CommitStatus{Tracking: true}
	commit, err := s.commits.LatestCommit(ctx)
	if err == nil {
		status.Commit = commit
		status.HasCommit = true
	} else if !errors.Is(err, gitinfo.ErrNoCommits) {
		s.logWarn("Reading latest commit failed: %v", err)
	}
	return status
}

// ApplyCommits stores a status produced by ProbeCommits.
func (s *Session) ApplyCommits(status CommitStatus) {
	s.repo = status
	if status.HasCommit && s.state != nil {
		s.state.LastCommit = status.Commit.When
	}
}

// HoursSinceLastCommit uses the last probed status. It is +Inf when
// nothing has been committed or there is no repository.
func (s *Session) HoursSinceLastCommit() float64 {
	if !s.repo.HasCommit {
		return math.Inf(1)
	}
	return math.Max(0, s.now().Sub(s.repo.Commit.When).Hours())
}

// Close performs the final save. It is safe to call more than once. A pet
// whose owner never gave a name is not saved, so the next launch asks again.
func (s *Session) Close(ctx context.Context) []Notice {
	if s.closed || !s.started || s.state == nil {
		return nil
	}
	s.closed = true
	var notices []Notice
	if s.needsOwner {
		s.logInfo("Naming abandoned; nothing saved")
		notices = append(notices, Notice{Text: "🥚 The egg will wait for you. Nothing was saved.", Tone: ToneInfo})
	} else if err := s.store.Save(s.state); err != nil {
		s.logError("Final save failed: %v", err)
		notices = append(notices, Notice{Text: fmt.Sprintf("❌ Could not save pet: %v", err), Tone: ToneDanger})
	} else {
		notices = append(notices, Notice{Text: "✅ Pet saved successfully!", Tone: ToneSuccess})
	}
	if hours := s.HoursSinceLastCommit(); s.repo.Tracking && hours > commitWarnHours {
		notices = append(notices, Notice{
			Text: fmt.Sprintf("⚠️  Warning: %s since last commit! Make a commit soon!", formatHours(hours)),
			Tone: ToneWarning,
		})
	}
	notices = append(notices, Notice{Text: "👋 Goodbye! Come back soon (and commit code)!", Tone: ToneInfo})
	s.record(ctx, journal.KindSession, "session closed")
	s.logInfo("Session closed")
	return notices
}

func (s *Session) record(ctx context.Context, kind journal.Kind, detail string) {
	if s.journal == nil || s.state == nil {
		return
	}
	_, err := s.journal.Record(ctx, journal.Event{
		Kind:       kind,
		Detail:     detail,
		Bond:       s.state.Get(pet.BondLevel),
		Clarity:    s.state.Get(pet.NameClarity),
		Corruption: s.state.Get(pet.FileCorruption),
		At:         s.now(),
	})
	if err != nil {
		s.logWarn("Journal: %v", err)
	}
}

func (s *Session) logInfo(format string, args ...any) {
	if s.log != nil {
		s.log.Info(format, args...)
	}
}

func (s *Session) logWarn(format string, args ...any) {
	if s.log != nil {
		s.log.Warn(format, args...)
	}
}

func (s *Session) logError(format string, args ...any) {
	if s.log != nil {
		s.log.Error(format, args...)
	}
}

func describe(o decay.Outcome) string {
	return fmt.Sprintf("bond %+d, clarity %+d, corruption %+d", o.Bond, o.Clarity, o.Corruption)
}

func formatHours(h float64) string {
	if math.IsInf(h, 1) {
		return "ages"
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", h), ".0") + "h"
}

var _ Store = (*save.Store)(nil)
var _ Commits = (*gitinfo.Repo)(nil)
var _ Journal = (*journal.Journal)(nil)

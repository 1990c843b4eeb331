package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/memory-pet/internal/journal"
	"github.com/kingrea/memory-pet/internal/menu"
	"github.com/kingrea/memory-pet/internal/pet"
)

// ManualDecayHours is how much absence the Manual Decay setting simulates.
const ManualDecayHours = 10

// Result is what the render loop needs to know after a dispatch.
type Result struct {
	Message string
	Tone    Tone
	// Animate names the sprite animation to play, if any.
	Animate string
	Quit    bool
}

// Dispatch applies action to the pet. Mutating actions are journaled and
// saved immediately; a failed save is reported in the message, never
// returned as an error.
func (s *Session) Dispatch(ctx context.Context, action menu.Action) Result {
	st := s.state
	now := s.now()
	name := st.Name()

	var res Result
	mutated := true
	switch action {
	case menu.Feed:
		st.Feed(now)
		res = Result{Message: fmt.Sprintf("🍖 %s is eating... nom nom! Health restored!", name), Tone: ToneSuccess}
	case menu.Play:
		st.Play(now)
		res = Result{Message: fmt.Sprintf("🎾 %s is playing! So much fun!", name), Tone: ToneSuccess}
	case menu.Dance:
		res = s.trick(ctx, st.Dance(now), "dance", fmt.Sprintf("💃 %s dances gracefully!", name))
	case menu.Sit:
		res = s.trick(ctx, st.Sit(now), "sit", fmt.Sprintf("🪑 %s sits down obediently!", name))
	case menu.Sing:
		res = s.trick(ctx, st.Sing(now), "sing", fmt.Sprintf("🎵 %s sings a beautiful song! ♪♫", name))
	case menu.Decay:
		out := s.policy.Simulate(ManualDecayHours, st)
		res = Result{
			Message: fmt.Sprintf("⏱️  Simulated %d hours of decay: %s", ManualDecayHours, describe(out)),
			Tone:    ToneWarning,
		}
		s.record(ctx, journal.KindDecay, fmt.Sprintf("manual %dh decay", ManualDecayHours))
	case menu.GitStatus:
		mutated = false
		res = s.gitStatus()
	case menu.ShowStats:
		mutated = false
		res = s.stats(ctx)
	case menu.Save:
		mutated = false
		if err := s.store.Save(st); err != nil {
			s.logError("Manual save failed: %v", err)
			return Result{Message: fmt.Sprintf("❌ Save failed: %v", err), Tone: ToneDanger}
		}
		return Result{Message: "✅ Saved!", Tone: ToneSuccess}
	case menu.Quit:
		s.logInfo("Quit requested")
		return Result{Message: "💾 Saving pet...", Tone: ToneInfo, Quit: true}
	default:
		return Result{Message: "❓ Unknown command! Try: feed, play, dance, sit, sing, status, save, quit", Tone: ToneDanger}
	}

	if !mutated {
		return res
	}
	if res.Animate == "" && isCare(action) {
		res.Animate = string(action)
	}
	if isCare(action) {
		s.record(ctx, journal.KindAction, string(action))
	}
	s.logInfo("Action %s · bond %d · clarity %d · corruption %d",
		action, st.Get(pet.BondLevel), st.Get(pet.NameClarity), st.Get(pet.FileCorruption))
	if err := s.store.Save(st); err != nil {
		s.logError("Save after %s failed: %v", action, err)
		res.Message += " (save failed)"
		res.Tone = ToneWarning
	}
	return res
}

func (s *Session) trick(ctx context.Context, learned bool, which, again string) Result {
	if learned {
		s.record(ctx, journal.KindTrick, "learned to "+which)
		return Result{Message: fmt.Sprintf("✨ %s learned to %s!", s.state.Name(), which), Tone: ToneInfo, Animate: which}
	}
	return Result{Message: again, Tone: ToneSuccess, Animate: which}
}

func isCare(action menu.Action) bool {
	switch action {
	case menu.Feed, menu.Play, menu.Dance, menu.Sit, menu.Sing:
		return true
	}
	return false
}

func (s *Session) gitStatus() Result {
	if !s.repo.Tracking {
		return Result{Message: "⚠️  Not a git repo! Pet won't decay.", Tone: ToneWarning}
	}
	if !s.repo.HasCommit {
		return Result{Message: fmt.Sprintf("📁 %s has no commits yet. Make one!", s.commits.Name()), Tone: ToneWarning}
	}
	c := s.repo.Commit
	return Result{
		Message: fmt.Sprintf("📁 %s · %d commits · last: %q by %s (%s)", s.commits.Name(), c.Total, c.Message, c.Author, c.TimeAgo),
		Tone:    ToneInfo,
	}
}

func (s *Session) stats(ctx context.Context) Result {
	st := s.state
	tricks := "None yet"
	if learned := st.Tricks(); len(learned) > 0 {
		tricks = strings.Join(learned, ", ")
	}
	msg := fmt.Sprintf("📊 Interactions: %d | Tricks: %s | ⏰ Hours since commit: %s",
		st.Interactions(), tricks, formatHours(s.HoursSinceLastCommit()))
	if s.journal != nil {
		if counts, err := s.journal.Counts(ctx); err == nil {
			msg += fmt.Sprintf(" | 📓 %d care · %d decay · %d reward",
				counts[journal.KindAction], counts[journal.KindDecay], counts[journal.KindReward])
		}
	}
	return Result{Message: msg, Tone: ToneInfo}
}

// RecentMemories returns short journal lines, newest first.
func (s *Session) RecentMemories(ctx context.Context, n int) []string {
	if s.journal == nil {
		return nil
	}
	events, err := s.journal.Recent(ctx, n)
	if err != nil {
		s.logWarn("Journal: %v", err)
		return nil
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("%s %s · %s", e.At.Local().Format("Jan 2 15:04"), e.Kind, e.Detail))
	}
	return lines
}

// ParseCommand maps a typed command to an action. It accepts the menu
// action names plus the short aliases of the prompt.
func ParseCommand(input string) (menu.Action, bool) {
	word := strings.ToLower(strings.TrimSpace(input))
	switch word {
	case "status", "stats":
		return menu.ShowStats, true
	case "exit", "quit", "q":
		return menu.Quit, true
	case "git", "git status":
		return menu.GitStatus, true
	}
	for _, a := range []menu.Action{menu.Feed, menu.Play, menu.Dance, menu.Sit, menu.Sing, menu.Decay, menu.Save, menu.GitStatus, menu.ShowStats} {
		if word == string(a) {
			return a, true
		}
	}
	return "", false
}

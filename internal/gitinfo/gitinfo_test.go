package gitinfo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"testing"
	"time"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fakeGit(responses map[string]string) Runner {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		if out, ok := responses[key]; ok {
			return []byte(out), nil
		}
		return nil, fmt.Errorf("git %s: exit status 128", key)
	}
}

func repoWith(responses map[string]string) *Repo {
	return Open("/work/memory-pet", WithRunner(fakeGit(responses)), WithClock(func() time.Time { return now }))
}

func TestLatestCommit(t *testing.T) {
	committed := now.Add(-3 * time.Hour)
	repo := repoWith(map[string]string{
		"rev-parse --is-inside-work-tree":        "true\n",
		"log -1 --format=%H%x1f%ct%x1f%an%x1f%s": fmt.Sprintf("abc123\x1f%d\x1fAda\x1ffix: feed the pet\n", committed.Unix()),
		"rev-list --count HEAD":                  "42\n",
	})
	commit, err := repo.LatestCommit(context.Background())
	if err != nil {
		t.Fatalf("latest commit: %v", err)
	}
	if commit.Message != "fix: feed the pet" || commit.Author != "Ada" || commit.Total != 42 {
		t.Fatalf("commit = %+v", commit)
	}
	if commit.TimeAgo != "3 hours ago" {
		t.Fatalf("time ago = %q", commit.TimeAgo)
	}
	if got := repo.HoursSinceLastCommit(context.Background()); math.Abs(got-3) > 1e-9 {
		t.Fatalf("hours = %v, want 3", got)
	}
	if repo.Name() != "memory-pet" {
		t.Fatalf("name = %q", repo.Name())
	}
}

func TestNotRepository(t *testing.T) {
	repo := repoWith(nil)
	if repo.IsRepository(context.Background()) {
		t.Fatalf("expected not a repository")
	}
	if _, err := repo.LatestCommit(context.Background()); !errors.Is(err, ErrNotRepository) {
		t.Fatalf("err = %v, want ErrNotRepository", err)
	}
	if got := repo.HoursSinceLastCommit(context.Background()); !math.IsInf(got, 1) {
		t.Fatalf("hours = %v, want +Inf", got)
	}
}

func TestEmptyRepository(t *testing.T) {
	repo := repoWith(map[string]string{"rev-parse --is-inside-work-tree": "true\n"})
	if _, err := repo.LatestCommit(context.Background()); !errors.Is(err, ErrNoCommits) {
		t.Fatalf("err = %v, want ErrNoCommits", err)
	}
}

func TestRealGitOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", dir)
	if Open(dir).IsRepository(context.Background()) {
		t.Fatalf("temp dir should not be a repository")
	}
}

// Package gitinfo reads commit metadata for the repository the pet lives in
// by shelling out to git.
package gitinfo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const defaultTimeout = 3 * time.Second

var (
	// ErrNotRepository means the directory is not inside a git work tree
	// or git itself is unavailable.
	ErrNotRepository = errors.New("gitinfo: not a git repository")
	// ErrNoCommits means the repository has no commits yet.
	ErrNoCommits = errors.New("gitinfo: no commits")
)

// Runner executes git with args in dir and returns stdout.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Commit summarizes the most recent commit.
type Commit struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
	TimeAgo string
	Total   int
}

// Option customizes a Repo.
type Option func(*Repo)

// WithRunner replaces the git executor.
func WithRunner(run Runner) Option {
	return func(r *Repo) {
		if run != nil {
			r.run = run
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTimeout bounds each git invocation.
func WithTimeout(d time.Duration) Option {
	return func(r *Repo) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Repo answers commit questions for one directory.
type Repo struct {
	dir     string
	run     Runner
	now     func() time.Time
	timeout time.Duration
}

// Open returns a Repo rooted at dir. It does not touch git.
func Open(dir string, opts ...Option) *Repo {
	r := &Repo{dir: dir, run: execGit, now: time.Now, timeout: defaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name is the base name of the tracked directory.
func (r *Repo) Name() string {
	return filepath.Base(r.dir)
}

// IsRepository reports whether dir is inside a git work tree.
func (r *Repo) IsRepository(ctx context.Context) bool {
	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// LatestCommit describes HEAD.
func (r *Repo) LatestCommit(ctx context.Context) (Commit, error) {
	if !r.IsRepository(ctx) {
		return Commit{}, ErrNotRepository
	}
	out, err := r.git(ctx, "log", "-1", "--format=%H%x1f%ct%x1f%an%x1f%s")
	if err != nil {
		return Commit{}, fmt.Errorf("%w: %v", ErrNoCommits, err)
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return Commit{}, ErrNoCommits
	}
	parts := strings.SplitN(line, "\x1f", 4)
	if len(parts) != 4 {
		return Commit{}, fmt.Errorf("gitinfo: unexpected log output %q", line)
	}
	secs, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("gitinfo: parse commit time: %w", err)
	}
	when := time.Unix(secs, 0)
	commit := Commit{
		Hash:    parts[0],
		Author:  parts[2],
		Message: parts[3],
		When:    when,
		TimeAgo: humanize.RelTime(when, r.now(), "ago", "from now"),
	}
	if out, err := r.git(ctx, "rev-list", "--count", "HEAD"); err == nil {
		commit.Total, _ = strconv.Atoi(strings.TrimSpace(string(out)))
	}
	return commit, nil
}

// HoursSinceLastCommit is +Inf when there is no repository or no commit.
func (r *Repo) HoursSinceLastCommit(ctx context.Context) float64 {
	commit, err := r.LatestCommit(ctx)
	if err != nil {
		return math.Inf(1)
	}
	return math.Max(0, r.now().Sub(commit.When).Hours())
}

func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.run(ctx, r.dir, args...)
}

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

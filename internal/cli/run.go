package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/memory-pet/internal/config"
	"github.com/kingrea/memory-pet/internal/game"
	"github.com/kingrea/memory-pet/internal/gitinfo"
	"github.com/kingrea/memory-pet/internal/journal"
	"github.com/kingrea/memory-pet/internal/logbook"
	"github.com/kingrea/memory-pet/internal/save"
	"github.com/kingrea/memory-pet/internal/sprites"
	"github.com/kingrea/memory-pet/internal/tui"
)

const (
	sessionStarting = "Session starting"
	summaryWindow   = 200
)

func runPet(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Logging disabled: %v\n", err)
	}
	lb.Info("%s in %s", sessionStarting, cwd)

	deps := game.Deps{
		Store:   save.New(cfg.SavePath()),
		Commits: gitinfo.Open(cwd),
		Log:     lb,
		Policy:  cfg.Project.Decay,
		PetName: cfg.Project.Pet.Name,
	}
	if cfg.JournalEnabled() {
		j, err := journal.Open(cfg.JournalPath())
		if err != nil {
			lb.Warn("Journal disabled: %v", err)
		} else {
			defer j.Close()
			deps.Journal = j
		}
	}

	sheet, err := sprites.Load(cfg.SpritesPath())
	if err != nil {
		lb.Warn("Sprite sheet rejected, using built-in art: %v", err)
		if sheet, err = sprites.Default(); err != nil {
			return err
		}
	}

	session := game.NewSession(deps)
	notices := session.Start(ctx)
	app := tui.NewApp(session, sheet, cfg,
		tui.WithContext(ctx),
		tui.WithLogbook(lb),
		tui.WithNotices(notices),
	)

	runErr := tui.Run(ctx, app)
	interrupted := wasInterrupted(ctx, runErr)
	if runErr != nil && !interrupted {
		lb.Warn("Live board unavailable, falling back to a single command: %v", runErr)
		if !errors.Is(runErr, tui.ErrNoTerminal) {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", runErr)
		}
		if err := tui.RunOnce(ctx, app, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			lb.Error("Single command failed: %v", err)
		}
	}
	return finish(ctx, session, lb, interrupted, cmd.OutOrStdout())
}

func wasInterrupted(ctx context.Context, runErr error) bool {
	return ctx.Err() != nil || errors.Is(runErr, tea.ErrProgramKilled)
}

// finish closes the session even when ctx was cancelled by a signal, so the
// final save always runs.
func finish(ctx context.Context, session *game.Session, lb *logbook.Logbook, interrupted bool, w io.Writer) error {
	for _, n := range session.Close(context.WithoutCancel(ctx)) {
		fmt.Fprintln(w, n.Text)
	}
	if line := logSummary(lb); line != "" {
		fmt.Fprintln(w, line)
	}
	if interrupted {
		lb.Warn("Interrupted")
		return ErrInterrupted
	}
	return nil
}

// logSummary points at the journey log when this session logged a warning
// or an error.
func logSummary(lb *logbook.Logbook) string {
	lines, total := lb.Tail(summaryWindow)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if strings.Contains(line, sessionStarting) {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if level := logbook.Level(fields[1]); level == logbook.LevelWarn || level == logbook.LevelError {
			return fmt.Sprintf("📓 %d entries in %s; latest problem: %s", total, lb.Path(), strings.Join(fields[2:], " "))
		}
	}
	return ""
}

package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/kingrea/memory-pet/internal/game"
)

// ErrNoTerminal means stdin or stdout is not an interactive terminal.
var ErrNoTerminal = errors.New("tui: no interactive terminal")

const commandHelp = "feed, play, dance, sit, sing, status, git, decay, save, quit"

// Interactive reports whether both files are terminals.
func Interactive(in, out *os.File) bool {
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run drives the board until the user quits or ctx is canceled. It
// returns ErrNoTerminal without touching the terminal when either stdio
// stream is not a TTY.
func Run(ctx context.Context, app *App, opts ...tea.ProgramOption) error {
	if !Interactive(os.Stdin, os.Stdout) {
		return ErrNoTerminal
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// RunOnce is the fallback when no live terminal is available: it prints
// the board once, reads a single command from r, applies it and returns.
func RunOnce(ctx context.Context, app *App, r io.Reader, w io.Writer) error {
	lines := bufio.NewScanner(r)
	session := app.session

	if session.NeedsOwner() {
		fmt.Fprintf(w, "A new pet named %s is hatching! What's your name? ", session.State().Name())
		owner := ""
		if lines.Scan() {
			owner = lines.Text()
		}
		notice := session.Adopt(ctx, owner)
		fmt.Fprintln(w, notice.Text)
		app.state = stateLive
	}

	app.refreshMemories()
	app.compose()
	fmt.Fprintln(w, app.view)
	fmt.Fprintf(w, "Command (%s): ", commandHelp)

	if !lines.Scan() {
		fmt.Fprintln(w)
		if err := lines.Err(); err != nil {
			return fmt.Errorf("tui: read command: %w", err)
		}
		return nil
	}
	action, ok := game.ParseCommand(lines.Text())
	if !ok {
		fmt.Fprintf(w, "❓ Unknown command %q. Try: %s\n", strings.TrimSpace(lines.Text()), commandHelp)
		return nil
	}
	res := session.Dispatch(ctx, action)
	fmt.Fprintln(w, res.Message)
	return nil
}

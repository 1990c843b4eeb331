// internal/tui/app.go
//
// The live board for the pet. It follows bubbletea's Elm architecture,
// with one twist: key presses do not change anything when they arrive.
// Update drops them into a one-slot mailbox and the tick handler, which
// runs at a fixed rate, takes at most one of them, applies it and then
// composes the frame that View hands back.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/memory-pet/internal/config"
	"github.com/kingrea/memory-pet/internal/game"
	"github.com/kingrea/memory-pet/internal/glitch"
	"github.com/kingrea/memory-pet/internal/input"
	"github.com/kingrea/memory-pet/internal/logbook"
	"github.com/kingrea/memory-pet/internal/menu"
	"github.com/kingrea/memory-pet/internal/pet"
	"github.com/kingrea/memory-pet/internal/sprites"
)

// appState represents which screen we're on
type appState int

const (
	stateNaming appState = iota // first launch, asking for the owner's name
	stateLive                   // the pet board
)

const memoryCount = 3

type tickMsg time.Time

type commitMsg game.CommitStatus

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRand fixes the randomness used to corrupt text.
func WithRand(rng glitch.Source) AppOption {
	return func(a *App) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithLogbook sends render errors to the journey log.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithNotices shows startup notices as the first transient message.
func WithNotices(notices []game.Notice) AppOption {
	return func(a *App) {
		a.notices = notices
	}
}

// WithContext sets the context passed to the session.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// App is the bubbletea model for the pet board.
type App struct {
	state   appState
	ctx     context.Context
	session *game.Session
	sheet   *sprites.Sheet
	render  config.RenderConfig
	theme   Theme
	keys    input.KeyMap
	mailbox input.Mailbox
	menu    *menu.Machine
	logbook *logbook.Logbook
	rng     glitch.Source
	now     func() time.Time
	notices []game.Notice

	nameInput textinput.Model
	bar       progress.Model
	help      help.Model

	// draw composes a frame. Tests swap it to exercise the panic guard.
	draw func() string

	ticks        int
	frame        int
	animation    string
	animUntil    time.Time
	message      string
	tone         game.Tone
	messageUntil time.Time
	memories     []string
	view         string
	quitting     bool
	// failing is set while draws keep panicking so the log gets one entry.
	failing bool

	width  int
	height int
}

// NewApp builds the board for a started session.
func NewApp(session *game.Session, sheet *sprites.Sheet, cfg *config.Config, opts ...AppOption) *App {
	a := &App{
		ctx:     context.Background(),
		session: session,
		sheet:   sheet,
		render:  cfg.Project.Render,
		theme:   NewTheme(cfg.Project.Theme),
		keys:    input.DefaultKeyMap(),
		menu:    menu.New(),
		now:     time.Now,
		help:    help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.rng == nil {
		a.rng = glitch.NewSource()
	}
	if a.render.AnimationEvery <= 0 {
		a.render.AnimationEvery = 1
	}
	a.draw = a.renderBoard
	a.bar = progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage())

	a.state = stateLive
	if session.NeedsOwner() {
		a.state = stateNaming
		ti := textinput.New()
		ti.Placeholder = "your name"
		ti.CharLimit = 32
		ti.Width = 32
		ti.Focus()
		a.nameInput = ti
	}

	if len(a.notices) > 0 {
		text, tone := joinNotices(a.notices)
		a.show(text, tone, a.now())
	}
	a.refreshMemories()
	a.compose()
	return a
}

// Init starts the tick and the commit refresh.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.scheduleTick(), a.scheduleCommitRefresh()}
	if a.state == stateNaming {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.state == stateNaming {
			return a.updateNaming(msg)
		}
		if k, ok := a.keys.Translate(msg); ok {
			a.mailbox.Put(k)
		}
		return a, nil

	case tickMsg:
		return a.onTick()

	case commitMsg:
		a.session.ApplyCommits(game.CommitStatus(msg))
		return a, a.scheduleCommitRefresh()
	}

	if a.state == stateNaming {
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View returns the frame composed by the last tick.
func (a *App) View() string {
	if a.state == stateNaming {
		return a.renderNaming()
	}
	return a.view
}

// Quitting reports whether the board asked to stop.
func (a *App) Quitting() bool { return a.quitting }

func (a *App) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		a.quitting = true
		return a, tea.Quit
	case tea.KeyEnter:
		notice := a.session.Adopt(a.ctx, a.nameInput.Value())
		a.state = stateLive
		a.show(notice.Text, notice.Tone, a.now())
		a.refreshMemories()
		a.compose()
		return a, nil
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a *App) onTick() (tea.Model, tea.Cmd) {
	if a.state != stateLive {
		return a, a.scheduleTick()
	}
	now := a.now()
	a.step(now)
	a.compose()

	if a.quitting {
		return a, tea.Quit
	}
	return a, a.scheduleTick()
}

// step advances animations and applies the pending key. A panic here is
// reported like a render failure and the loop carries on.
func (a *App) step(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			a.logError("Tick failed: %v", r)
			a.show(fmt.Sprintf("⚠️  Error: %v", r), game.ToneDanger, now)
		}
	}()
	a.ticks++

	if a.animation != "" && !now.Before(a.animUntil) {
		a.animation = ""
		a.frame = 0
	}

	if a.ticks%a.render.AnimationEvery == 0 && (a.message != "" || a.animation != "") {
		if n := len(a.activeFrames()); n > 0 {
			a.frame = (a.frame + 1) % n
		}
	}

	if k, ok := a.mailbox.Take(); ok {
		a.apply(k, now)
	}

	if a.message != "" && !now.Before(a.messageUntil) {
		a.message = ""
	}
}

func (a *App) apply(k input.Key, now time.Time) {
	switch k {
	case input.KeyUp:
		a.menu.Up()
	case input.KeyDown:
		a.menu.Down()
	case input.KeyLeft:
		a.menu.Left()
	case input.KeyRight:
		a.menu.Right()
	case input.KeyBack:
		if a.menu.State() == menu.Main {
			a.quitting = true
			return
		}
		a.menu.Left()
	case input.KeyQuit:
		a.quitting = true
	case input.KeyEnter:
		action, ok := a.menu.Select()
		if !ok {
			return
		}
		res := a.session.Dispatch(a.ctx, action)
		a.show(res.Message, res.Tone, now)
		if res.Animate != "" {
			if _, ok := a.sheet.ActionFrames(res.Animate); ok {
				a.animation = res.Animate
				a.animUntil = now.Add(a.render.ActionDuration)
				a.frame = 0
			}
		}
		if res.Quit {
			a.quitting = true
		}
		a.refreshMemories()
	}
}

// compose renders the board into the frame cache. A panic while drawing
// keeps the previous frame and surfaces the error as a message. Repeated
// failures are logged once until a frame renders again.
func (a *App) compose() {
	defer func() {
		if r := recover(); r != nil {
			if !a.failing {
				a.logError("Render failed: %v", r)
			}
			a.failing = true
			a.show(fmt.Sprintf("⚠️  Render error: %v", r), game.ToneDanger, a.now())
		}
	}()
	a.view = a.draw()
	a.failing = false
}

func (a *App) show(text string, tone game.Tone, now time.Time) {
	if text == "" {
		return
	}
	a.message = text
	a.tone = tone
	a.messageUntil = now.Add(a.render.MessageDuration)
}

func (a *App) activeFrames() []sprites.Frame {
	if a.animation != "" {
		if frames, ok := a.sheet.ActionFrames(a.animation); ok {
			return frames
		}
	}
	st := a.session.State()
	return a.sheet.IdleFrames(st.Get(pet.BondLevel), st.Get(pet.FileCorruption))
}

func (a *App) refreshMemories() {
	a.memories = a.session.RecentMemories(a.ctx, memoryCount)
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(a.render.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// scheduleCommitRefresh probes git from the command goroutine so the tick
// never waits on a subprocess.
func (a *App) scheduleCommitRefresh() tea.Cmd {
	if a.render.CommitRefresh <= 0 {
		return nil
	}
	session, ctx := a.session, a.ctx
	return tea.Tick(a.render.CommitRefresh, func(time.Time) tea.Msg {
		return commitMsg(session.ProbeCommits(ctx))
	})
}

func (a *App) logError(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Error(format, args...)
	}
}

// joinNotices stacks notices into one message with the most severe tone.
func joinNotices(notices []game.Notice) (string, game.Tone) {
	lines := make([]string, 0, len(notices))
	tone := game.ToneInfo
	for _, n := range notices {
		lines = append(lines, n.Text)
		if n.Tone > tone {
			tone = n.Tone
		}
	}
	return strings.Join(lines, "\n"), tone
}

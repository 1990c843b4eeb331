package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/kingrea/memory-pet/internal/glitch"
	"github.com/kingrea/memory-pet/internal/pet"
	"github.com/kingrea/memory-pet/internal/sprites"
)

const (
	title          = "═══ MEMORY PET ═══"
	barWidth       = 20
	menuWidth      = 26
	statsWidth     = 46
	defaultWidth   = 110
	artCorruptAt   = 30
	titleCorruptAt = 60
)

type statRow struct {
	label   string
	value   int
	inverse bool
}

func (a *App) renderBoard() string {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	st := a.session.State()
	corruption := st.Get(pet.FileCorruption)

	text, color := title, a.theme.primary
	if corruption > titleCorruptAt {
		text = glitch.Corrupt(title, corruption, a.rng)
		color = a.theme.danger
	}
	header := a.theme.box(color).
		Width(max(20, width-2)).
		Align(lipgloss.Center).
		Render(a.theme.heading(color).Render(text))

	petWidth := max(24, width-menuWidth-statsWidth-6)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderMenu(),
		a.renderPet(petWidth),
		a.renderStats(),
	)
	return strings.Join([]string{header, body, a.renderFooter(width)}, "\n")
}

func (a *App) renderMenu() string {
	lines := []string{a.theme.heading(a.theme.secondary).Render(a.menu.Breadcrumb()), ""}
	for i, item := range a.menu.Items() {
		label := item.Label
		if item.HasSubmenu {
			label += " ›"
		}
		if i == a.menu.Cursor() {
			lines = append(lines, a.theme.heading(a.theme.primary).Render("▶ "+label))
			continue
		}
		lines = append(lines, "  "+label)
	}
	return a.theme.box(a.theme.secondary).Width(menuWidth).Render(strings.Join(lines, "\n"))
}

func (a *App) renderPet(width int) string {
	st := a.session.State()
	corruption := st.Get(pet.FileCorruption)
	art := sprites.Pick(a.activeFrames(), a.frame).Text()
	if a.animation == "" && corruption > artCorruptAt {
		art = glitch.Corrupt(art, corruption, a.rng)
	}
	lines := []string{
		a.theme.heading(a.theme.primary).Render("Your Pet"),
		"",
		lipgloss.NewStyle().Foreground(a.theme.info).Render(art),
		"",
		fmt.Sprintf("🦆 %s greets: '%s'", st.Name(), st.DisplayName()),
	}
	if corruption >= glitch.Threshold {
		lines = append(lines, a.theme.heading(a.theme.danger).Render(fmt.Sprintf("⚠️  Memory corruption: %d%%", corruption)))
	}
	return a.theme.box(a.theme.primary).Width(width).Render(strings.Join(lines, "\n"))
}

func (a *App) renderStats() string {
	st := a.session.State()
	rows := []statRow{
		{"😊 Happiness", st.Get(pet.Happiness), false},
		{"❤️  Health", st.Get(pet.Health), false},
		{"🍖 Hunger", st.Get(pet.Hunger), true},
		{"💝 Bond Level", st.Get(pet.BondLevel), false},
		{"🧠 Memory Clarity", st.Get(pet.NameClarity), false},
		{"📁 File Integrity", 100 - st.Get(pet.FileCorruption), false},
	}
	label := lipgloss.NewStyle().Foreground(a.theme.info).Width(18)
	lines := []string{a.theme.heading(a.theme.secondary).Render("Status"), ""}
	for _, row := range rows {
		health := row.value
		if row.inverse {
			health = 100 - row.value
		}
		bar := a.bar
		bar.FullColor = string(a.theme.Bar(health))
		lines = append(lines, fmt.Sprintf("%s%s %3d%%", label.Render(row.label), bar.ViewAs(float64(row.value)/100), row.value))
	}
	if tricks := st.Tricks(); len(tricks) > 0 {
		lines = append(lines, "", label.Render("✨ Tricks")+a.theme.faint().Render(strings.Join(tricks, ", ")))
	}
	if len(a.memories) > 0 {
		lines = append(lines, "", a.theme.heading(a.theme.secondary).Render("Recent memories"))
		for _, m := range a.memories {
			lines = append(lines, a.theme.faint().Render("· "+m))
		}
	}
	return a.theme.box(a.theme.secondary).Width(statsWidth).Render(strings.Join(lines, "\n"))
}

func (a *App) renderFooter(width int) string {
	message := " "
	if a.message != "" {
		message = a.theme.Tone(a.tone).Render(a.message)
	}
	lines := []string{
		message,
		a.theme.faint().Render(a.commitLine()),
		a.help.ShortHelpView(a.keys.Help()),
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
}

func (a *App) commitLine() string {
	repo := a.session.Repo()
	switch {
	case !repo.Tracking:
		return "⚠️  Not tracking a git repo. Memories are frozen."
	case !repo.HasCommit:
		return "📁 No commits yet. Make one!"
	}
	c := repo.Commit
	return fmt.Sprintf("⏰ Last commit: %s (%s)", c.Message, humanize.RelTime(c.When, a.now(), "ago", "from now"))
}

func (a *App) renderNaming() string {
	lines := []string{
		a.theme.heading(a.theme.primary).Render("╔═══ WELCOME TO MEMORY PET ═══╗"),
		"",
		fmt.Sprintf("A new pet named %s is hatching!", a.session.State().Name()),
		"What's your name?",
		"",
		a.nameInput.View(),
		"",
		a.theme.faint().Render("enter to confirm · esc to quit"),
	}
	return a.theme.box(a.theme.primary).Render(strings.Join(lines, "\n"))
}

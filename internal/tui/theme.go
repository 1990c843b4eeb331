package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/memory-pet/internal/config"
	"github.com/kingrea/memory-pet/internal/game"
)

// Theme is the palette the board is drawn with. It is built once from
// config and never changed.
type Theme struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	danger    lipgloss.Color
	info      lipgloss.Color
	muted     lipgloss.Color
}

// NewTheme converts configured hex colors into a Theme.
func NewTheme(c config.ThemeConfig) Theme {
	return Theme{
		primary:   lipgloss.Color(c.Primary),
		secondary: lipgloss.Color(c.Secondary),
		success:   lipgloss.Color(c.Success),
		warning:   lipgloss.Color(c.Warning),
		danger:    lipgloss.Color(c.Danger),
		info:      lipgloss.Color(c.Info),
		muted:     lipgloss.Color(c.Muted),
	}
}

// Tone returns the text style for a message tone.
func (t Theme) Tone(tone game.Tone) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch tone {
	case game.ToneSuccess:
		return style.Foreground(t.success)
	case game.ToneWarning:
		return style.Foreground(t.warning)
	case game.ToneDanger:
		return style.Foreground(t.danger)
	default:
		return style.Foreground(t.info)
	}
}

// Bar picks the fill color for a level, red when it runs low.
func (t Theme) Bar(value int) lipgloss.Color {
	switch {
	case value > 60:
		return t.success
	case value > 30:
		return t.warning
	default:
		return t.danger
	}
}

func (t Theme) box(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func (t Theme) heading(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func (t Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.muted)
}

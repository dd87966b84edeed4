package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	on       lipgloss.Style
	off      lipgloss.Style
	hint     lipgloss.Style
	err      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		label:    lipgloss.NewStyle().Foreground(t.Muted),
		value:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		on:       lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		off:      lipgloss.NewStyle().Foreground(t.Warning),
		hint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		err:      lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

func (s styles) flag(on bool) string {
	if on {
		return s.on.Render("on")
	}
	return s.off.Render("off")
}

func (s styles) row(label, value string) string {
	return s.label.Render(label+": ") + s.value.Render(value)
}

// opacityBar renders opacity in [0, 1] as a fixed width bar.
func opacityBar(opacity float64, width int) string {
	filled := int(opacity * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

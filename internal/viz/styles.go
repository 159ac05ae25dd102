package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tablesim/internal/table"
)

// styles are rebuilt whenever the theme changes.
type styles struct {
	side     lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	record   lipgloss.Style
	selected lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		side: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(40),
		header:   lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Value),
		graph:    lipgloss.NewStyle().Foreground(t.Graph),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		record:   lipgloss.NewStyle().Bold(true).Foreground(t.Alert).Blink(true),
		selected: lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		errText:  lipgloss.NewStyle().Foreground(t.Alert),
	}
}

// swatch renders a two-cell color chip, bracketed when active.
func swatch(c table.Color, active bool) string {
	chip := lipgloss.NewStyle().Background(lipgloss.Color(c.String())).Render("  ")
	if active {
		return "[" + chip + "]"
	}
	return " " + chip + " "
}

// SpeedBar renders a bar proportional to v/max.
func SpeedBar(v, max float64, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(v / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

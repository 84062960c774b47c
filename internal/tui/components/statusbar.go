package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/theme"
)

// Status is what the bottom bar reports.
type Status struct {
	Server      string
	DataAge     string // e.g. "loaded 12:04:05 in 85ms"
	Refreshing  bool
	AutoRefresh bool
	Flash       string // transient message, shown instead of the key hints
	FlashIsErr  bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if s.Flash != "" {
		color := t.Green
		if s.FlashIsErr {
			color = t.Red
		}
		left = lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(" " + s.Flash)
	}

	right := ""
	if s.Refreshing {
		right += accent.Render("↻ refreshing") + base.Render("  ")
	} else if s.AutoRefresh {
		right += accent.Render("auto") + base.Render("  ")
	}
	if s.DataAge != "" {
		right += base.Render(s.DataAge + "  ")
	}
	if s.Server != "" {
		right += base.Render(s.Server + " ")
	}

	// Pad middle
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		right = ""
		padding = width - lipgloss.Width(left)
		if padding < 0 {
			padding = 0
		}
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).
		Render(left + base.Render(strings.Repeat(" ", padding)) + right)
}

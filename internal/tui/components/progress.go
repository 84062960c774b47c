package components

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/theme"
)

// ShareBar renders a category's share of spending as a progress bar
// followed by its label, e.g. "████░░░░ 45.50%".
// pct is 0-100; the label is shown verbatim.
func ShareBar(pct float64, label string, barWidth int) string {
	t := theme.Active

	frac := pct / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(frac) + spaceStyle.Render(" ") + labelStyle.Render(label)
}

// Badge renders a category label as a coloured pill.
func Badge(text string, bg lipgloss.Color) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.BadgeText).
		Background(bg).
		Padding(0, 1).
		Render(text)
}

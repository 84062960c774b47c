package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/components"
	"github.com/iterlife/expdash/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	rows := a.snap.CategoryTable

	innerW := components.CardInnerWidth(cw)
	totalW, countW := 14, 6
	nameW := 16
	barW := innerW - nameW - totalW - countW - 3 - 8 // 8 for the percentage label
	if barW < 8 {
		barW = 8
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	title := "Category analysis"
	if f := a.snap.Filters; f.Start != "" || f.End != "" {
		title = fmt.Sprintf("%s (%s → %s)", title, orDots(f.Start), orDots(f.End))
	}

	if len(rows) == 0 {
		return components.ContentCard(title, mutedStyle.Render("No expenses in this range"), cw)
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %-*s %*s",
		nameW, "Category", totalW, "Total", barW+8, "Share", countW, "Count")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	for _, r := range rows {
		badge := components.Badge(truncStr(r.Category, nameW-2), t.BadgePrimary)
		if gap := nameW - lipgloss.Width(badge); gap > 0 {
			badge += spaceStyle.Render(strings.Repeat(" ", gap))
		}
		body.WriteString(badge)
		body.WriteString(rowStyle.Render(fmt.Sprintf(" %*s ", totalW, r.Total)))
		body.WriteString(components.ShareBar(r.Percent.InexactFloat64(), r.BarWidth, barW))
		if gap := 8 - lipgloss.Width(r.BarWidth) - 1; gap > 0 {
			body.WriteString(spaceStyle.Render(strings.Repeat(" ", gap)))
		}
		body.WriteString(mutedStyle.Render(fmt.Sprintf(" %*s", countW, r.Count)))
		body.WriteString("\n")
	}

	return components.ContentCard(title, body.String(), cw)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/components"
	"github.com/iterlife/expdash/internal/tui/theme"
)

func (a App) renderRecentTab(cw int) string {
	t := theme.Active
	rows := a.snap.RecentTable

	innerW := components.CardInnerWidth(cw)
	dateW, catW, amountW := 12, 14, 14
	descW := innerW - dateW - catW - amountW - 3
	if descW < 10 {
		descW = 10
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	title := fmt.Sprintf("Recent expenses (%d)", len(rows))
	if len(rows) == 0 {
		return components.ContentCard(title, mutedStyle.Render("No expenses yet"), cw)
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %s",
		dateW, "Date", catW, "Category", amountW, "Amount", "Description")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	for _, r := range rows {
		body.WriteString(dateStyle.Render(fmt.Sprintf("%-*s ", dateW, r.Date)))
		badge := components.Badge(truncStr(r.Category, catW-2), t.BadgeInfo)
		if gap := catW - lipgloss.Width(badge); gap > 0 {
			badge += spaceStyle.Render(strings.Repeat(" ", gap))
		}
		body.WriteString(badge)
		body.WriteString(amountStyle.Render(fmt.Sprintf(" %*s ", amountW, r.Amount)))
		body.WriteString(descStyle.Render(truncStr(r.Description, descW)))
		body.WriteString("\n")
	}

	return components.ContentCard(title, body.String(), cw)
}

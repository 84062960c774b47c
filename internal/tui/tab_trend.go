package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/tui/components"
	"github.com/iterlife/expdash/internal/tui/theme"
)

// trendPreviewLines caps how much of the raw payload is shown.
const trendPreviewLines = 20

func (a App) renderTrendTab(cw int) string {
	t := theme.Active
	tr := a.snap.Trend

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if !tr.Loaded() {
		return components.ContentCard("Trend", dimStyle.Render("Press g to pick a category and load its trend"), cw)
	}

	category := tr.Category
	if category == "" {
		category = dashboard.AllCategories
	}
	points := "n/a"
	if tr.Points >= 0 {
		points = a.ctrl.Formatter().Count(tr.Points)
	}

	var summary strings.Builder
	for _, kv := range [][2]string{
		{"Category", category},
		{"Window", fmt.Sprintf("%d days", tr.Days)},
		{"Points", points},
		{"Fetched", tr.FetchedAt.Format("15:04:05")},
	} {
		summary.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", kv[0])))
		summary.WriteString(valueStyle.Render(kv[1]))
		summary.WriteString("\n")
	}

	innerW := components.CardInnerWidth(cw)
	var preview strings.Builder
	for i, line := range strings.Split(prettyJSON(tr.Raw), "\n") {
		if i == trendPreviewLines {
			preview.WriteString(dimStyle.Render("…"))
			break
		}
		preview.WriteString(dimStyle.Render(truncStr(line, innerW)))
		preview.WriteString("\n")
	}

	return components.ContentCard("Trend", summary.String(), cw) + "\n" +
		components.ContentCard("Payload", preview.String(), cw)
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

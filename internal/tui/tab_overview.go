package tui

import (
	"fmt"
	"strconv"

	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/tui/components"
)

func (a App) renderOverviewTab(cw, h int) string {
	s := a.snap

	// Row 1: headline cards
	cards := []components.Metric{
		{Label: "This month", Value: s.Cards.CurrentMonthTotal, Hint: s.CurrentDate},
		{Label: "Monthly average", Value: s.Cards.AvgMonthly, Hint: "statistics year " + strconv.Itoa(s.StatsYear)},
		{Label: "Transactions", Value: s.Cards.TotalTransactions, Hint: "across loaded months"},
	}
	out := components.MetricCardRow(cards, cw) + "\n"

	// Row 2: monthly line chart beside the category ring
	chartH := h - 10
	if chartH < 6 {
		chartH = 6
	}
	if chartH > 16 {
		chartH = 16
	}

	lineW, ringW := cw, cw
	if !a.isCompactLayout() {
		halves := components.LayoutRow(cw, 2)
		lineW, ringW = halves[0]+halves[0]/3, halves[1]-halves[0]/3
	}

	monthlyTitle := s.Monthly.Title
	if s.Filters.Year > 0 {
		monthlyTitle = fmt.Sprintf("%s (%d)", monthlyTitle, s.Filters.Year)
	}
	monthlyBody := components.LineChart(s.Monthly.Values(), s.Monthly.Labels, s.Monthly.TickFormat,
		components.CardInnerWidth(lineW), chartH)
	if s.Monthly.Empty() {
		monthlyBody = "No monthly data"
	}
	lineCard := components.ContentCard(monthlyTitle, monthlyBody, lineW)

	ringCard := components.ContentCard(s.Category.Title, a.categoryRing(s.Category, components.CardInnerWidth(ringW)), ringW)

	if a.isCompactLayout() {
		out += lineCard + "\n" + ringCard
	} else {
		out += components.CardRow([]string{lineCard, ringCard})
	}
	return out
}

func (a App) categoryRing(c *dashboard.Chart, width int) string {
	if c.Empty() {
		return "No category data"
	}
	colors := make([]string, len(c.Labels))
	for i := range c.Labels {
		colors[i] = c.Color(i)
	}
	return components.RingChart(c.Labels, c.Values(), colors, a.ctrl.Formatter().CurrencyFloat, width,
		c.Options.Legend == dashboard.LegendTop)
}

package components

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// LineChart renders a filled area line chart. The Y axis starts at zero and
// tick labels are produced by tick, or a compact number when tick is nil.
func LineChart(values []float64, labels []string, tick func(float64) string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(values, t.ChartLine)
	}
	if tick == nil {
		tick = formatChartLabel
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := height / 2
	if maxIntervals < 2 {
		maxIntervals = 2
	}
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := int(math.Round(ceiling / tickStep))
	if numIntervals < 1 {
		numIntervals = 1
	}

	rowsPerTick := height / numIntervals
	if rowsPerTick < 2 {
		rowsPerTick = 2
	}
	chartH := rowsPerTick * numIntervals

	tickLabels := make(map[int]string, numIntervals)
	yLabelW := lipgloss.Width(tick(0))
	for i := 1; i <= numIntervals; i++ {
		lbl := tick(tickStep * float64(i))
		tickLabels[i*rowsPerTick] = lbl
		if w := lipgloss.Width(lbl); w > yLabelW {
			yLabelW = w
		}
	}
	yLabelW++

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	cols, points := interpolate(values, chartW)

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	lineStyle := lipgloss.NewStyle().Foreground(t.ChartLine).Background(t.Surface)
	fillStyle := lipgloss.NewStyle().Foreground(t.ChartFill).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for _, v := range cols {
			switch {
			case v > rowTop && v-rowTop >= (rowTop-rowBottom):
				b.WriteString(fillStyle.Render("█"))
			case v > rowBottom:
				frac := (math.Min(v, rowTop) - rowBottom) / (rowTop - rowBottom)
				idx := int(frac * 8)
				if idx > 8 {
					idx = 8
				}
				if idx < 1 {
					idx = 1
				}
				b.WriteString(lineStyle.Render(string(blocks[idx])))
			default:
				b.WriteString(blankStyle.Render(" "))
			}
		}
		b.WriteString("\n")
	}

	// X-axis line with the zero tick
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tick(0))))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", chartW)))

	if len(labels) == len(values) {
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, points, chartW)))
	}

	return b.String()
}

// interpolate spreads n values across w columns, linearly filling between
// neighbours. It also returns the column of each original value.
func interpolate(values []float64, w int) ([]float64, []int) {
	n := len(values)
	cols := make([]float64, w)
	points := make([]int, n)
	if n == 1 {
		for i := range cols {
			cols[i] = values[0]
		}
		points[0] = 0
		return cols, points
	}
	for i := range points {
		points[i] = i * (w - 1) / (n - 1)
	}
	for x := range cols {
		pos := float64(x) * float64(n-1) / float64(w-1)
		i := int(pos)
		if i >= n-1 {
			cols[x] = values[n-1]
			continue
		}
		frac := pos - float64(i)
		cols[x] = values[i] + (values[i+1]-values[i])*frac
	}
	return cols, points
}

// placeLabels lays labels out under their columns, skipping any that would
// overlap the previous one. The last label is always kept if it fits.
func placeLabels(labels []string, points []int, w int) string {
	buf := []rune(strings.Repeat(" ", w))
	lastEnd := -1
	put := func(i int, force bool) {
		lbl := []rune(labels[i])
		pos := points[i]
		if pos+len(lbl) > w {
			pos = w - len(lbl)
		}
		if pos < 0 || (!force && pos <= lastEnd) {
			return
		}
		if force && pos <= lastEnd {
			// clear whatever the previous label left under the last one
			for j := pos; j < w; j++ {
				buf[j] = ' '
			}
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := 0; i < len(labels)-1; i++ {
		put(i, false)
	}
	put(len(labels)-1, true)
	return strings.TrimRight(string(buf), " ")
}

// RingChart renders a part-to-whole chart: a two-row segmented band whose
// segment widths are proportional to values, plus a legend above or below.
// colors cycle when there are more values than colors.
func RingChart(labels []string, values []float64, colors []string, format func(float64) string, width int, legendTop bool) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if len(values) == 0 || total == 0 {
		return dim.Render("No data")
	}
	if format == nil {
		format = formatChartLabel
	}

	widths := segmentWidths(values, total, width)
	colorAt := func(i int) lipgloss.Color {
		if len(colors) == 0 {
			return t.Accent
		}
		return lipgloss.Color(colors[i%len(colors)])
	}

	var band strings.Builder
	for i, w := range widths {
		if w > 0 {
			band.WriteString(lipgloss.NewStyle().Foreground(colorAt(i)).Background(t.Surface).
				Render(strings.Repeat("█", w)))
		}
	}
	bandLine := band.String()
	ring := bandLine + "\n" + bandLine

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}
	maxLabel := width - 22
	if maxLabel < 6 {
		maxLabel = 6
	}
	if labelW > maxLabel {
		labelW = maxLabel
	}

	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	legend := make([]string, len(values))
	for i, v := range values {
		lbl := ""
		if i < len(labels) {
			lbl = labels[i]
		}
		lbl = truncate(lbl, labelW)
		pad := strings.Repeat(" ", labelW-lipgloss.Width(lbl))
		pct := 0.0
		if v > 0 {
			pct = v / total * 100
		}
		legend[i] = lipgloss.NewStyle().Foreground(colorAt(i)).Background(t.Surface).Render("● ") +
			textStyle.Render(lbl+pad) +
			mutedStyle.Render(fmt.Sprintf("  %s  %5.1f%%", format(v), pct))
	}

	if legendTop {
		return strings.Join(legend, "\n") + "\n\n" + ring
	}
	return ring + "\n\n" + strings.Join(legend, "\n")
}

// segmentWidths splits width proportionally using largest remainders so the
// segments sum to exactly width.
func segmentWidths(values []float64, total float64, width int) []int {
	widths := make([]int, len(values))
	rems := make([]float64, len(values))
	used := 0
	for i, v := range values {
		if v <= 0 {
			continue
		}
		exact := v / total * float64(width)
		widths[i] = int(exact)
		rems[i] = exact - float64(widths[i])
		used += widths[i]
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rems[order[a]] > rems[order[b]] })
	for _, i := range order {
		if used >= width {
			break
		}
		if values[i] > 0 {
			widths[i]++
			used++
		}
	}
	return widths
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

package dashboard

import (
	"slices"

	"github.com/iterlife/expdash/internal/model"
)

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	KindLine     ChartKind = "line"
	KindDoughnut ChartKind = "doughnut"
)

// Legend positions.
const (
	LegendTop    = "top"
	LegendBottom = "bottom"
)

// MonthlyLineColor is the stroke colour of the monthly trend line.
const MonthlyLineColor = "#667eea"

// CategoryPalette is the fixed segment palette of the category chart.
// Segments past the twelfth reuse it from the start.
var CategoryPalette = []string{
	"#667eea", "#764ba2", "#f093fb", "#f5576c",
	"#4facfe", "#00f2fe", "#43e97b", "#38f9d7",
	"#ffecd2", "#fcb69f", "#a8edea", "#fed6e3",
}

// ChartOptions mirrors the display options a chart is created with.
type ChartOptions struct {
	Responsive          bool
	MaintainAspectRatio bool
	Legend              string
	BeginAtZero         bool
	Fill                bool
	Tension             float64
}

// Dataset is one series of values.
type Dataset struct {
	Label  string
	Values []float64
	Colors []string
}

// Chart is a long-lived chart model. Updates replace its data in place; the
// pointer held by State never changes.
type Chart struct {
	Kind     ChartKind
	Title    string
	Options  ChartOptions
	Labels   []string
	Datasets []Dataset
	// TickFormat renders Y axis values. Nil means plain numbers.
	TickFormat func(float64) string
	// Revision increments on every update that changed data.
	Revision   int
	Transition string
}

// NewMonthlyChart builds the monthly spending line chart.
func NewMonthlyChart(tick func(float64) string) *Chart {
	return &Chart{
		Kind:  KindLine,
		Title: "Monthly spending",
		Options: ChartOptions{
			Responsive:  true,
			Legend:      LegendTop,
			BeginAtZero: true,
			Fill:        true,
			Tension:     0.4,
		},
		Datasets:   []Dataset{{Label: "Monthly spending", Colors: []string{MonthlyLineColor}}},
		TickFormat: tick,
	}
}

// NewCategoryChart builds the category share doughnut chart.
func NewCategoryChart() *Chart {
	return &Chart{
		Kind:  KindDoughnut,
		Title: "Category share",
		Options: ChartOptions{
			Responsive: true,
			Legend:     LegendBottom,
		},
		Datasets: []Dataset{{Colors: slices.Clone(CategoryPalette)}},
	}
}

// set replaces labels and the first dataset's values.
func (c *Chart) set(labels []string, values []float64) {
	c.Labels = labels
	c.Datasets[0].Values = values
	c.Revision++
	c.Transition = "active"
}

// Empty reports whether the chart has never received data.
func (c *Chart) Empty() bool {
	return len(c.Labels) == 0
}

// Color returns the colour of the i-th segment, cycling the dataset palette.
func (c *Chart) Color(i int) string {
	colors := c.Datasets[0].Colors
	if len(colors) == 0 {
		return ""
	}
	return colors[i%len(colors)]
}

// Values returns the first dataset's values.
func (c *Chart) Values() []float64 {
	return c.Datasets[0].Values
}

func (c *Chart) clone() *Chart {
	out := *c
	out.Labels = slices.Clone(c.Labels)
	out.Datasets = make([]Dataset, len(c.Datasets))
	for i, d := range c.Datasets {
		out.Datasets[i] = Dataset{
			Label:  d.Label,
			Values: slices.Clone(d.Values),
			Colors: slices.Clone(d.Colors),
		}
	}
	return &out
}

// UpdateMonthlyChart plots month totals. Empty input leaves the chart as is.
func UpdateMonthlyChart(c *Chart, data []model.MonthlyStat) {
	if c == nil || len(data) == 0 {
		return
	}
	labels := make([]string, len(data))
	values := make([]float64, len(data))
	for i, m := range data {
		labels[i] = m.Month
		values[i] = m.TotalAmount.InexactFloat64()
	}
	c.set(labels, values)
}

// UpdateCategoryChart plots category totals. Empty input leaves the chart as is.
func UpdateCategoryChart(c *Chart, data []model.CategoryStat) {
	if c == nil || len(data) == 0 {
		return
	}
	labels := make([]string, len(data))
	values := make([]float64, len(data))
	for i, s := range data {
		labels[i] = s.Category
		values[i] = s.TotalAmount.InexactFloat64()
	}
	c.set(labels, values)
}

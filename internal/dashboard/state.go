package dashboard

import (
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/model"
)

// Select option labels for the "no filter" entries.
const (
	AllYears      = "All years"
	AllCategories = "All categories"
)

// CategoryRow is one rendered row of the category table.
type CategoryRow struct {
	Category string
	Total    string
	// BarWidth is the server percentage with a "%" suffix, used verbatim
	// as the progress bar width and its label.
	BarWidth string
	Percent  decimal.Decimal
	Count    string
}

// RecentRow is one rendered row of the recent expenses table.
type RecentRow struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// Option is one entry of a Select.
type Option struct {
	Value string
	Label string
}

// Select is a single-choice list whose first option means "all".
type Select struct {
	Options []Option
	Value   string
}

// Label returns the label of the selected option.
func (s Select) Label() string {
	for _, o := range s.Options {
		if o.Value == s.Value {
			return o.Label
		}
	}
	return ""
}

// rebuild replaces the options and keeps the selection if it survived.
func (s *Select) rebuild(all string, opts []Option) {
	s.Options = append([]Option{{Value: "", Label: all}}, opts...)
	if !slices.ContainsFunc(opts, func(o Option) bool { return o.Value == s.Value }) {
		s.Value = ""
	}
}

// StatCards holds the three headline figures, already formatted.
type StatCards struct {
	CurrentMonthTotal string
	AvgMonthly        string
	TotalTransactions string
}

// Filters are the user's current selections.
type Filters struct {
	Year     int    // 0 = all years
	Category string // "" = all categories
	Start    string // YYYY-MM-DD or ""
	End      string // YYYY-MM-DD or ""
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return f.Year != 0 || f.Category != "" || f.Start != "" || f.End != ""
}

// TrendState is the last trend payload and what it was requested for.
type TrendState struct {
	Category  string
	Days      int
	Points    int
	Raw       json.RawMessage
	FetchedAt time.Time
}

// Loaded reports whether a trend payload has arrived.
func (t TrendState) Loaded() bool {
	return !t.FetchedAt.IsZero()
}

// State is everything the dashboard renders.
type State struct {
	CurrentDate string
	StatsYear   int

	Monthly  *Chart
	Category *Chart

	CategoryTable []CategoryRow
	RecentTable   []RecentRow

	YearSelect     Select
	CategorySelect Select

	Cards   StatCards
	Filters Filters
	Trend   TrendState

	// LastLoaded is the completion time of the most recent successful load.
	LastLoaded time.Time
}

// NewState returns an empty dashboard dated now.
func NewState(f *cli.Formatter, now time.Time) *State {
	s := &State{
		CurrentDate: f.Date(now),
		StatsYear:   now.Year(),
		Monthly:     NewMonthlyChart(f.CurrencyFloat),
		Category:    NewCategoryChart(),
		Cards: StatCards{
			CurrentMonthTotal: f.Currency(decimal.Zero),
			AvgMonthly:        f.Currency(decimal.Zero),
			TotalTransactions: f.Count(0),
		},
	}
	s.YearSelect.rebuild(AllYears, nil)
	s.CategorySelect.rebuild(AllCategories, nil)
	return s
}

// Clone returns a deep copy safe to read without the controller lock.
func (s *State) Clone() *State {
	out := *s
	out.Monthly = s.Monthly.clone()
	out.Category = s.Category.clone()
	out.CategoryTable = slices.Clone(s.CategoryTable)
	out.RecentTable = slices.Clone(s.RecentTable)
	out.YearSelect.Options = slices.Clone(s.YearSelect.Options)
	out.CategorySelect.Options = slices.Clone(s.CategorySelect.Options)
	out.Trend.Raw = slices.Clone(s.Trend.Raw)
	return &out
}

// UpdateCategoryTable replaces the category rows.
func (s *State) UpdateCategoryTable(f *cli.Formatter, data []model.CategoryStat) {
	rows := make([]CategoryRow, len(data))
	for i, c := range data {
		rows[i] = CategoryRow{
			Category: c.Category,
			Total:    f.Currency(c.TotalAmount),
			BarWidth: c.PercentageText + "%",
			Percent:  c.Percentage,
			Count:    strconv.Itoa(c.TransactionCount),
		}
	}
	s.CategoryTable = rows
}

// UpdateRecentTable replaces the recent expense rows.
func (s *State) UpdateRecentTable(f *cli.Formatter, data []model.RecentExpense) {
	rows := make([]RecentRow, len(data))
	for i, e := range data {
		desc := "-"
		if e.Description != nil && *e.Description != "" {
			desc = *e.Description
		}
		rows[i] = RecentRow{
			Date:        f.Date(e.ExpenseDate),
			Category:    e.Category,
			Amount:      f.Currency(e.Amount),
			Description: desc,
		}
	}
	s.RecentTable = rows
}

// UpdateStatsCards recomputes the headline figures from monthly data.
// The current-month card only changes when now's month is present.
func (s *State) UpdateStatsCards(f *cli.Formatter, data []model.MonthlyStat, now time.Time) {
	if len(data) == 0 {
		return
	}

	month := now.Format("2006-01")
	sum := decimal.Zero
	count := 0
	current := false
	for _, m := range data {
		// first matching month wins
		if m.Month == month && !current {
			s.Cards.CurrentMonthTotal = f.Currency(m.TotalAmount)
			current = true
		}
		sum = sum.Add(m.TotalAmount)
		count += m.TransactionCount
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(data)))).Round(0)
	s.Cards.AvgMonthly = f.Currency(avg)
	s.Cards.TotalTransactions = f.Count(count)
}

// UpdateYearSelect rebuilds the year options, newest first, without duplicates.
func (s *State) UpdateYearSelect(data []model.YearlyStat) {
	years := make([]int, 0, len(data))
	seen := make(map[int]bool, len(data))
	for _, y := range data {
		if !seen[y.Year] {
			seen[y.Year] = true
			years = append(years, y.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	opts := make([]Option, len(years))
	for i, y := range years {
		v := strconv.Itoa(y)
		opts[i] = Option{Value: v, Label: v}
	}
	s.YearSelect.rebuild(AllYears, opts)
	s.Filters.Year, _ = strconv.Atoi(s.YearSelect.Value)
}

// UpdateCategorySelect rebuilds the category options in the given order.
func (s *State) UpdateCategorySelect(categories []string) {
	opts := make([]Option, len(categories))
	for i, c := range categories {
		opts[i] = Option{Value: c, Label: c}
	}
	s.CategorySelect.rebuild(AllCategories, opts)
	s.Filters.Category = s.CategorySelect.Value
}

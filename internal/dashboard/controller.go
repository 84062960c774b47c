// Package dashboard holds the expense dashboard state and the controller that
// loads it: charts, tables, selectors, stat cards, filters and exports.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iterlife/expdash/internal/cli"
	"github.com/iterlife/expdash/internal/model"
)

// Fetcher is the subset of the API client the controller needs.
type Fetcher interface {
	FetchMonthlyStats(ctx context.Context, year int) ([]model.MonthlyStat, error)
	FetchCategoryAnalysis(ctx context.Context, start, end string) ([]model.CategoryStat, error)
	FetchRecentExpenses(ctx context.Context, limit int) ([]model.RecentExpense, error)
	FetchYearlyStats(ctx context.Context) ([]model.YearlyStat, error)
	FetchTrendData(ctx context.Context, category string, days int) (model.TrendPayload, error)
	Export(ctx context.Context, dataType, format string) (*model.ExportFile, error)
}

// ErrInvalidDateRange is returned by SetDateRange for malformed or reversed bounds.
var ErrInvalidDateRange = errors.New("invalid date range")

// initialSources are loaded by LoadAll, in this order.
var initialSources = []Source{
	SourceMonthly,
	SourceCategories,
	SourceRecent,
	SourceYears,
	SourceCategoryList,
}

// Options configures a Controller.
type Options struct {
	Formatter   *cli.Formatter
	RecentLimit int
	TrendDays   int
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller owns the dashboard state and every load that changes it.
// It is safe for concurrent use.
type Controller struct {
	api         Fetcher
	fmt         *cli.Formatter
	log         *slog.Logger
	now         func() time.Time
	recentLimit int
	trendDays   int

	mu      sync.Mutex
	state   *State
	tracker *tracker
}

// New creates a controller with empty charts and tables.
func New(api Fetcher, opts Options) *Controller {
	c := &Controller{
		api:         api,
		fmt:         opts.Formatter,
		log:         opts.Logger,
		now:         opts.Now,
		recentLimit: opts.RecentLimit,
		trendDays:   opts.TrendDays,
		tracker:     newTracker(),
	}
	if c.fmt == nil {
		c.fmt = cli.DefaultFormatter()
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.recentLimit <= 0 {
		c.recentLimit = 10
	}
	if c.trendDays <= 0 {
		c.trendDays = 365
	}
	c.state = NewState(c.fmt, c.now())
	return c
}

// Formatter returns the formatter used for rendered values.
func (c *Controller) Formatter() *cli.Formatter { return c.fmt }

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Close cancels every in-flight load.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker.cancelAll()
}

// Load fetches one source with the current filters and applies the result.
// A result overtaken by a newer load of the same source is dropped and
// Load returns nil. Failures come back as *SourceError.
func (c *Controller) Load(ctx context.Context, src Source) error {
	if src == SourceExport {
		return fmt.Errorf("dashboard: %s is not a loadable source", src)
	}

	c.mu.Lock()
	filters := c.state.Filters
	ctx, token := c.tracker.begin(ctx, src)
	c.mu.Unlock()

	start := c.now()
	apply, err := c.fetch(ctx, src, filters)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tracker.finish(src, token) {
		c.log.Debug("dropped stale result", "source", src.String(), "token", token)
		return nil
	}
	if err != nil {
		if src.Primary() {
			c.log.Error("load failed", "source", src.String(), "error", err)
		} else {
			c.log.Warn("load failed", "source", src.String(), "error", err)
		}
		return &SourceError{Source: src, Err: err}
	}

	apply(c.state)
	c.state.LastLoaded = c.now()
	c.log.Debug("loaded", "source", src.String(), "took", c.now().Sub(start))
	return nil
}

// fetch performs the request for src and returns a function that renders the
// result into state. The returned function runs under the lock.
func (c *Controller) fetch(ctx context.Context, src Source, f Filters) (func(*State), error) {
	switch src {
	case SourceMonthly:
		data, err := c.api.FetchMonthlyStats(ctx, f.Year)
		if err != nil {
			return nil, err
		}
		return func(s *State) {
			UpdateMonthlyChart(s.Monthly, data)
			s.UpdateStatsCards(c.fmt, data, c.now())
		}, nil

	case SourceCategories:
		data, err := c.api.FetchCategoryAnalysis(ctx, f.Start, f.End)
		if err != nil {
			return nil, err
		}
		return func(s *State) {
			UpdateCategoryChart(s.Category, data)
			s.UpdateCategoryTable(c.fmt, data)
		}, nil

	case SourceRecent:
		data, err := c.api.FetchRecentExpenses(ctx, c.recentLimit)
		if err != nil {
			return nil, err
		}
		return func(s *State) { s.UpdateRecentTable(c.fmt, data) }, nil

	case SourceYears:
		data, err := c.api.FetchYearlyStats(ctx)
		if err != nil {
			return nil, err
		}
		return func(s *State) { s.UpdateYearSelect(data) }, nil

	case SourceCategoryList:
		data, err := c.api.FetchCategoryAnalysis(ctx, "", "")
		if err != nil {
			return nil, err
		}
		categories := model.Categories(data)
		return func(s *State) { s.UpdateCategorySelect(categories) }, nil

	case SourceTrend:
		data, err := c.api.FetchTrendData(ctx, f.Category, c.trendDays)
		if err != nil {
			return nil, err
		}
		return func(s *State) {
			s.Trend = TrendState{
				Category:  f.Category,
				Days:      c.trendDays,
				Points:    data.Points,
				Raw:       data.Raw,
				FetchedAt: c.now(),
			}
		}, nil
	}
	return nil, fmt.Errorf("dashboard: unknown source %d", int(src))
}

// loadMany runs the given sources concurrently and reports per-source failures.
func (c *Controller) loadMany(ctx context.Context, sources ...Source) *Report {
	report := &Report{Started: c.now()}
	errs := make([]error, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			errs[i] = c.Load(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		report.Add(err)
	}
	report.Finished = c.now()

	c.log.Info("load batch finished",
		"sources", len(sources),
		"failed", len(report.Errors),
		"took", cli.FormatDuration(report.Duration()))
	return report
}

// LoadAll performs the initial load: monthly stats, category analysis,
// recent expenses, the year selector and the category selector.
func (c *Controller) LoadAll(ctx context.Context) *Report {
	return c.loadMany(ctx, initialSources...)
}

// ApplyFilters reloads category analysis and recent expenses with the
// current date range.
func (c *Controller) ApplyFilters(ctx context.Context) *Report {
	return c.loadMany(ctx, SourceCategories, SourceRecent)
}

// ResetFilters clears every filter and reruns the initial load.
func (c *Controller) ResetFilters(ctx context.Context) *Report {
	c.mu.Lock()
	c.state.Filters = Filters{}
	c.state.YearSelect.Value = ""
	c.state.CategorySelect.Value = ""
	c.mu.Unlock()

	return c.LoadAll(ctx)
}

// SetYear scopes the monthly chart to year (0 for all years) and reloads it.
func (c *Controller) SetYear(ctx context.Context, year int) error {
	if year < 0 {
		return fmt.Errorf("dashboard: invalid year %d", year)
	}
	c.mu.Lock()
	c.state.Filters.Year = year
	c.state.YearSelect.Value = ""
	if year > 0 {
		c.state.YearSelect.Value = strconv.Itoa(year)
	}
	c.mu.Unlock()

	return c.Load(ctx, SourceMonthly)
}

// RefreshMonthly reloads the monthly chart for the selected year.
func (c *Controller) RefreshMonthly(ctx context.Context) error {
	return c.Load(ctx, SourceMonthly)
}

// SetCategory selects a category ("" for all) and loads its trend.
func (c *Controller) SetCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	c.state.Filters.Category = category
	c.state.CategorySelect.Value = category
	c.mu.Unlock()

	return c.Load(ctx, SourceTrend)
}

// SetDateRange validates and stores the YYYY-MM-DD bounds, either of which
// may be empty, then applies the filters.
func (c *Controller) SetDateRange(ctx context.Context, start, end string) (*Report, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.state.Filters.Start = start
	c.state.Filters.End = end
	c.mu.Unlock()

	return c.ApplyFilters(ctx), nil
}

// ValidateDateRange checks that non-empty bounds are ISO dates and that
// start is not after end.
func ValidateDateRange(start, end string) error {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(time.DateOnly, start); err != nil {
			return fmt.Errorf("%w: start %q is not YYYY-MM-DD", ErrInvalidDateRange, start)
		}
	}
	if end != "" {
		if e, err = time.Parse(time.DateOnly, end); err != nil {
			return fmt.Errorf("%w: end %q is not YYYY-MM-DD", ErrInvalidDateRange, end)
		}
	}
	if start != "" && end != "" && s.After(e) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, start, end)
	}
	return nil
}

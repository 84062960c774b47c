package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iterlife/expdash/internal/config"
	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/model"
	"github.com/iterlife/expdash/internal/tui/components"
)

type stubAPI struct {
	monthlyErr error
}

func (s *stubAPI) FetchMonthlyStats(context.Context, int) ([]model.MonthlyStat, error) {
	if s.monthlyErr != nil {
		return nil, s.monthlyErr
	}
	return []model.MonthlyStat{
		{Month: "2024-02", Year: 2024, TotalAmount: decimal.NewFromInt(300), TransactionCount: 4},
		{Month: "2024-03", Year: 2024, TotalAmount: decimal.NewFromInt(120), TransactionCount: 2},
	}, nil
}

func (s *stubAPI) FetchCategoryAnalysis(context.Context, string, string) ([]model.CategoryStat, error) {
	return []model.CategoryStat{{
		Category:         "餐饮",
		TotalAmount:      decimal.NewFromInt(420),
		Percentage:       decimal.NewFromInt(100),
		PercentageText:   "100.00",
		TransactionCount: 6,
	}}, nil
}

func (s *stubAPI) FetchRecentExpenses(context.Context, int) ([]model.RecentExpense, error) {
	return []model.RecentExpense{{
		ExpenseDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Category:    "餐饮",
		Amount:      decimal.NewFromInt(42),
	}}, nil
}

func (s *stubAPI) FetchYearlyStats(context.Context) ([]model.YearlyStat, error) {
	return []model.YearlyStat{{Year: 2024}, {Year: 2023}}, nil
}

func (s *stubAPI) FetchTrendData(context.Context, string, int) (model.TrendPayload, error) {
	return model.TrendPayload{Raw: []byte(`[]`), Points: 0}, nil
}

func (s *stubAPI) Export(context.Context, string, string) (*model.ExportFile, error) {
	return nil, errors.New("not used")
}

func newTestApp(api dashboard.Fetcher) App {
	ctrl := dashboard.New(api, dashboard.Options{
		Now: func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) },
	})
	a := NewApp(Options{
		Config:     config.DefaultConfig(),
		Controller: ctrl,
		SaveConfig: func(func(*config.Config)) error { return nil },
	})
	a.width, a.height = 140, 45
	return a
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	out, ok := m.(App)
	require.True(t, ok)
	return out
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func loadInitial(t *testing.T, a App) App {
	t.Helper()
	return update(t, a, loadAllCmd(a.ctrl, "initial load")())
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := tabWidthForTest(tab.Name, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func tabWidthForTest(name string, active bool) int {
	w := len(name) + 2 // horizontal padding in tab renderer
	if !active {
		w += 3 // inactive tabs add "[k]"
	}
	return w
}

func TestInitialLoadPopulatesSnapshot(t *testing.T) {
	a := newTestApp(&stubAPI{})
	assert.False(t, a.loaded)

	a = loadInitial(t, a)
	assert.True(t, a.loaded)
	assert.Empty(t, a.errs)
	assert.Equal(t, []string{"2024-02", "2024-03"}, a.snap.Monthly.Labels)
	assert.Equal(t, "¥120", a.snap.Cards.CurrentMonthTotal)
	assert.Len(t, a.snap.RecentTable, 1)
}

func TestPrimaryFailureOpensErrorModal(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{monthlyErr: errors.New("boom")}))

	require.Len(t, a.errs, 1)
	assert.Contains(t, a.errs[0], "Failed to load monthly stats")
	assert.Contains(t, a.View(), "Failed to load monthly stats")

	// any key dismisses it without acting on the key
	a = update(t, a, keyMsg("3"))
	assert.Empty(t, a.errs)
	assert.Equal(t, tabOverview, a.activeTab)
}

func TestTabKeys(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	a = update(t, a, keyMsg("3"))
	assert.Equal(t, tabRecent, a.activeTab)

	a = update(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabTrend, a.activeTab)

	// wraps around
	a = update(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, a.activeTab)

	a = update(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabTrend, a.activeTab)
}

func TestHelpToggle(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	a = update(t, a, keyMsg("?"))
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a = update(t, a, keyMsg("x"))
	assert.False(t, a.showHelp)
}

func TestFilterKeysOpenForms(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	for key, kind := range map[string]formKind{
		"y": formYear,
		"g": formCategory,
		"f": formDates,
		"e": formExport,
	} {
		opened := update(t, a, keyMsg(key))
		assert.Equal(t, kind, opened.formKind, key)
		require.NotNil(t, opened.form, key)

		closed := update(t, opened, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Nil(t, closed.form, key)
		assert.Equal(t, formNone, closed.formKind, key)
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	x := tabWidthForTest("Overview", true) + 1 + 2 // inside "Categories"
	a = update(t, a, tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, tabCategories, a.activeTab)
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	for i := range components.Tabs {
		a.activeTab = i
		v := a.View()
		lines := strings.Split(v, "\n")
		assert.Len(t, lines, a.height, "tab %d", i)
		assert.Contains(t, v, "Overview")
	}

	a.activeTab = tabCategories
	assert.Contains(t, a.View(), "餐饮")
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(&stubAPI{})
	a.width = 60
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestTruncStr(t *testing.T) {
	assert.Equal(t, "abc", truncStr("abc", 5))
	assert.Equal(t, "ab…", truncStr("abcdef", 3))
	assert.Equal(t, "", truncStr("abc", 0))
}

func TestAutoRefreshStartsAfterInterval(t *testing.T) {
	a := newTestApp(&stubAPI{})
	a.autoRefresh = true
	a.refreshInterval = 10 * time.Second

	a = loadInitial(t, a)
	assert.Equal(t, 0, a.inFlight)

	// before the interval nothing happens
	a = update(t, a, tickMsg(a.lastRefresh.Add(5*time.Second)))
	assert.Equal(t, 0, a.inFlight)

	a = update(t, a, tickMsg(a.lastRefresh.Add(time.Hour)))
	assert.Equal(t, 1, a.inFlight)

	a = update(t, a, loadAllCmd(a.ctrl, "auto refresh")())
	assert.Equal(t, 0, a.inFlight)
}

func TestManualRefreshShowsRefreshing(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))
	assert.NotContains(t, a.View(), "refreshing")

	a = update(t, a, keyMsg("r"))
	assert.Equal(t, 1, a.inFlight)
	assert.Contains(t, a.View(), "refreshing")

	a = update(t, a, loadAllCmd(a.ctrl, "refresh")())
	assert.Equal(t, 0, a.inFlight)
}

func TestAutoRefreshTogglePersists(t *testing.T) {
	a := loadInitial(t, newTestApp(&stubAPI{}))

	saved := config.DefaultConfig()
	a.saveConfig = func(fn func(*config.Config)) error {
		fn(&saved)
		return nil
	}

	a = update(t, a, keyMsg("R"))
	assert.True(t, a.autoRefresh)
	assert.True(t, saved.TUI.AutoRefresh)
	assert.False(t, a.flashErr)
	assert.Equal(t, "Auto-refresh on", a.flash)

	a.saveConfig = func(func(*config.Config)) error { return errors.New("read-only file system") }
	a = update(t, a, keyMsg("R"))
	assert.False(t, a.autoRefresh)
	assert.True(t, a.flashErr)
	assert.Contains(t, a.flash, "read-only file system")
}

package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestParseMonthlyStats(t *testing.T) {
	body := `[
		{"month":"2024-01","year":2024,"total_amount":"100.50","transaction_count":3},
		{"month":"2024-02","year":2024,"total_amount":300,"transaction_count":"7"},
		{"month":"2024-03","total_amount":"0"}
	]`

	stats, err := ParseMonthlyStats([]byte(body))
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "2024-01", stats[0].Month)
	assert.True(t, stats[0].TotalAmount.Equal(dec("100.5")))
	assert.Equal(t, 3, stats[0].TransactionCount)

	assert.True(t, stats[1].TotalAmount.Equal(dec("300")))
	assert.Equal(t, 7, stats[1].TransactionCount)

	// year falls back to the month prefix, a missing count is zero
	assert.Equal(t, 2024, stats[2].Year)
	assert.Equal(t, 0, stats[2].TransactionCount)
}

func TestParseMonthlyStatsRejectsMalformedAmount(t *testing.T) {
	body := `[{"month":"2024-01","total_amount":"12.5"},{"month":"2024-02","total_amount":"abc"}]`

	_, err := ParseMonthlyStats([]byte(body))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "total_amount", verr.Field)
}

func TestParseMonthlyStatsRejectsBadMonth(t *testing.T) {
	_, err := ParseMonthlyStats([]byte(`[{"month":"2024-13","total_amount":"1"}]`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "month", verr.Field)
}

func TestParseMonthlyStatsNullBody(t *testing.T) {
	stats, err := ParseMonthlyStats([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestParseCategoryStatsKeepsPercentageText(t *testing.T) {
	body := `[{"category":"餐饮","total_amount":"1234.50","percentage":"45.50","transaction_count":12}]`

	stats, err := ParseCategoryStats([]byte(body))
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "餐饮", stats[0].Category)
	assert.Equal(t, "45.50", stats[0].PercentageText)
	assert.True(t, stats[0].Percentage.Equal(dec("45.5")))
	assert.Equal(t, 12, stats[0].TransactionCount)
}

func TestParseCategoryStatsPercentageRange(t *testing.T) {
	_, err := ParseCategoryStats([]byte(`[{"category":"x","total_amount":"1","percentage":"120"}]`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "percentage", verr.Field)
	assert.ErrorIs(t, err, errOutOfRange)
}

func TestParseRecentExpenses(t *testing.T) {
	body := `[
		{"expense_date":"2024-03-05","category":"交通","amount":"18","description":null},
		{"expense_date":"Fri, 05 Jan 2024 00:00:00 GMT","category":"餐饮","amount":"42.5","description":"lunch"}
	]`

	rows, err := ParseRecentExpenses([]byte(body))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rows[0].ExpenseDate)
	assert.Nil(t, rows[0].Description)

	assert.Equal(t, 2024, rows[1].ExpenseDate.Year())
	assert.Equal(t, time.January, rows[1].ExpenseDate.Month())
	assert.Equal(t, 5, rows[1].ExpenseDate.Day())
	require.NotNil(t, rows[1].Description)
	assert.Equal(t, "lunch", *rows[1].Description)
}

func TestParseRecentExpensesBadDate(t *testing.T) {
	_, err := ParseRecentExpenses([]byte(`[{"expense_date":"yesterday","amount":"1"}]`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "expense_date", verr.Field)
}

func TestParseYearlyStatsRequiresYear(t *testing.T) {
	years, err := ParseYearlyStats([]byte(`[{"year":2023,"total_amount":"10"},{"year":"2024"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2023, years[0].Year)
	assert.Equal(t, 2024, years[1].Year)

	_, err = ParseYearlyStats([]byte(`[{"total_amount":"10"}]`))
	assert.ErrorIs(t, err, errMissing)
}

func TestParseTrend(t *testing.T) {
	tp, err := ParseTrend([]byte(` [{"date":"2024-01-01","amount":"3"},{"date":"2024-01-02","amount":"4"}] `))
	require.NoError(t, err)
	assert.Equal(t, 2, tp.Points)

	tp, err = ParseTrend([]byte(`{"series":[]}`))
	require.NoError(t, err)
	assert.Equal(t, -1, tp.Points)

	_, err = ParseTrend([]byte(`{nope`))
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	got := Categories([]CategoryStat{{Category: "a"}, {Category: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
}

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// dateLayouts are the forms expense_date arrives in. Flask serialises date
// columns as RFC 1123 strings unless the view formats them itself.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
}

var (
	errMissing    = errors.New("missing")
	errOutOfRange = errors.New("out of range")
	errBadFormat  = errors.New("bad format")
)

// ValidationError reports a malformed field in a server payload.
type ValidationError struct {
	Kind  string
	Index int
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s[%d].%s: invalid value %q", e.Kind, e.Index, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

type rawMonthly struct {
	Month            string          `json:"month"`
	Year             json.RawMessage `json:"year"`
	TotalAmount      json.RawMessage `json:"total_amount"`
	TransactionCount json.RawMessage `json:"transaction_count"`
}

type rawCategory struct {
	Category         string          `json:"category"`
	TotalAmount      json.RawMessage `json:"total_amount"`
	Percentage       json.RawMessage `json:"percentage"`
	TransactionCount json.RawMessage `json:"transaction_count"`
}

type rawRecent struct {
	ExpenseDate string          `json:"expense_date"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Description *string         `json:"description"`
}

type rawYearly struct {
	Year             json.RawMessage `json:"year"`
	TotalAmount      json.RawMessage `json:"total_amount"`
	TransactionCount json.RawMessage `json:"transaction_count"`
}

// ParseMonthlyStats decodes a /api/monthly-stats body.
func ParseMonthlyStats(data []byte) ([]MonthlyStat, error) {
	var raws []rawMonthly
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding monthly stats: %w", err)
	}

	const kind = "monthly_stats"
	out := make([]MonthlyStat, 0, len(raws))
	for i, r := range raws {
		if !monthPattern.MatchString(r.Month) {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "month", Value: r.Month, Err: errBadFormat}
		}
		amount, err := parseAmount(r.TotalAmount)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "total_amount", Value: string(r.TotalAmount), Err: err}
		}
		year, present, err := parseInt(r.Year)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "year", Value: string(r.Year), Err: err}
		}
		if !present {
			// month is already validated, so its prefix is a year
			year, _ = strconv.Atoi(r.Month[:4])
		}
		count, _, err := parseInt(r.TransactionCount)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "transaction_count", Value: string(r.TransactionCount), Err: err}
		}
		out = append(out, MonthlyStat{
			Month:            r.Month,
			Year:             year,
			TotalAmount:      amount,
			TransactionCount: count,
		})
	}
	return out, nil
}

// ParseCategoryStats decodes a /api/category-analysis body.
func ParseCategoryStats(data []byte) ([]CategoryStat, error) {
	var raws []rawCategory
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding category analysis: %w", err)
	}

	const kind = "category_analysis"
	hundred := decimal.NewFromInt(100)
	out := make([]CategoryStat, 0, len(raws))
	for i, r := range raws {
		amount, err := parseAmount(r.TotalAmount)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "total_amount", Value: string(r.TotalAmount), Err: err}
		}
		pct, err := parseAmount(r.Percentage)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "percentage", Value: string(r.Percentage), Err: err}
		}
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "percentage", Value: string(r.Percentage), Err: errOutOfRange}
		}
		count, _, err := parseInt(r.TransactionCount)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "transaction_count", Value: string(r.TransactionCount), Err: err}
		}
		out = append(out, CategoryStat{
			Category:         r.Category,
			TotalAmount:      amount,
			Percentage:       pct,
			PercentageText:   literal(r.Percentage),
			TransactionCount: count,
		})
	}
	return out, nil
}

// ParseRecentExpenses decodes a /api/recent-expenses body.
func ParseRecentExpenses(data []byte) ([]RecentExpense, error) {
	var raws []rawRecent
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding recent expenses: %w", err)
	}

	const kind = "recent_expenses"
	out := make([]RecentExpense, 0, len(raws))
	for i, r := range raws {
		date, err := ParseDate(r.ExpenseDate)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "expense_date", Value: r.ExpenseDate, Err: err}
		}
		amount, err := parseAmount(r.Amount)
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "amount", Value: string(r.Amount), Err: err}
		}
		out = append(out, RecentExpense{
			ExpenseDate: date,
			Category:    r.Category,
			Amount:      amount,
			Description: r.Description,
		})
	}
	return out, nil
}

// ParseYearlyStats decodes a /api/yearly-stats body.
func ParseYearlyStats(data []byte) ([]YearlyStat, error) {
	var raws []rawYearly
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding yearly stats: %w", err)
	}

	const kind = "yearly_stats"
	out := make([]YearlyStat, 0, len(raws))
	for i, r := range raws {
		year, present, err := parseInt(r.Year)
		if err == nil && (!present || year <= 0) {
			err = errMissing
		}
		if err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "year", Value: string(r.Year), Err: err}
		}
		ys := YearlyStat{Year: year}
		if !isNull(r.TotalAmount) {
			if ys.TotalAmount, err = parseAmount(r.TotalAmount); err != nil {
				return nil, &ValidationError{Kind: kind, Index: i, Field: "total_amount", Value: string(r.TotalAmount), Err: err}
			}
		}
		if ys.TransactionCount, _, err = parseInt(r.TransactionCount); err != nil {
			return nil, &ValidationError{Kind: kind, Index: i, Field: "transaction_count", Value: string(r.TransactionCount), Err: err}
		}
		out = append(out, ys)
	}
	return out, nil
}

// ParseTrend wraps a /api/trend-data body after checking it is valid JSON.
func ParseTrend(data []byte) (TrendPayload, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return TrendPayload{}, errors.New("decoding trend data: invalid JSON")
	}
	tp := TrendPayload{Raw: json.RawMessage(trimmed), Points: -1}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			tp.Points = len(items)
		}
	}
	return tp, nil
}

// ParseDate parses an ISO date (or one of the timestamp forms the server
// emits) into a time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissing
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadFormat
}

// parseAmount accepts a decimal as a JSON string or number.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if isNull(raw) {
		return decimal.Zero, errMissing
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, errBadFormat
	}
	return d, nil
}

// parseInt accepts an integer as a JSON number or numeric string.
// Absent and null values report present=false.
func parseInt(raw json.RawMessage) (n int, present bool, err error) {
	if isNull(raw) {
		return 0, false, nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, true, errBadFormat
	}
	v, err := num.Int64()
	if err != nil {
		return 0, true, errBadFormat
	}
	return int(v), true, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// literal returns a scalar's text without JSON quoting.
func literal(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// Package model defines the payloads served by the expense statistics API
// and the validation that turns raw JSON into typed values.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyStat is one month of aggregated spending.
type MonthlyStat struct {
	Month            string // YYYY-MM
	Year             int
	TotalAmount      decimal.Decimal
	TransactionCount int
}

// CategoryStat is the share of spending for one category in the filtered window.
type CategoryStat struct {
	Category         string
	TotalAmount      decimal.Decimal
	Percentage       decimal.Decimal // 0-100, computed server-side
	PercentageText   string          // the percentage exactly as the server sent it
	TransactionCount int
}

// RecentExpense is a single expense row from the recent-expenses feed.
type RecentExpense struct {
	ExpenseDate time.Time
	Category    string
	Amount      decimal.Decimal
	Description *string
}

// YearlyStat is one year of aggregated spending. Only Year is required.
type YearlyStat struct {
	Year             int
	TotalAmount      decimal.Decimal
	TransactionCount int
}

// TrendPayload is the trend-data response. Its shape is owned by the server,
// so it is kept as raw JSON.
type TrendPayload struct {
	Raw json.RawMessage
	// Points is the element count when the payload is a JSON array, -1 otherwise.
	Points int
}

// ExportFile is a downloaded export ready to be written to disk.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Categories projects the category names out of an analysis payload,
// preserving order.
func Categories(stats []CategoryStat) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Category)
	}
	return out
}

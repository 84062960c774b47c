// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultCurrencySymbol = "¥"
	DefaultLocale         = "zh-CN"
	DefaultDateLayout     = "2006/1/2"

	// maxFractionDigits matches what a browser's toLocaleString shows for
	// a plain number.
	maxFractionDigits = 3
)

// Formatter renders amounts, counts and dates for one locale.
type Formatter struct {
	symbol     string
	dateLayout string
	printer    *message.Printer
}

// NewFormatter returns a formatter for the given currency symbol, BCP 47
// locale and Go date layout. Unknown locales fall back to Chinese grouping.
func NewFormatter(symbol, locale, dateLayout string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Chinese
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return &Formatter{
		symbol:     symbol,
		dateLayout: dateLayout,
		printer:    message.NewPrinter(tag),
	}
}

// DefaultFormatter returns the zh-CN yuan formatter.
func DefaultFormatter() *Formatter {
	return NewFormatter(DefaultCurrencySymbol, DefaultLocale, DefaultDateLayout)
}

// Symbol returns the currency symbol.
func (f *Formatter) Symbol() string { return f.symbol }

// Currency formats an amount with the currency symbol and grouped digits.
// e.g., 1234.5 -> "¥1,234.5"
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.CurrencyFloat(d.InexactFloat64())
}

// CurrencyFloat is Currency for chart values that are already floats.
func (f *Formatter) CurrencyFloat(v float64) string {
	return f.symbol + f.Number(v)
}

// Number formats a float with locale grouping and up to three fraction digits.
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}

// Count formats an integer with locale grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%v", number.Decimal(n))
}

// Date formats a calendar date with the configured layout.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.dateLayout)
}

// FormatDuration formats a load duration for status lines.
// e.g., 1.234s -> "1.2s", 85ms -> "85ms"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyGroupsDigits(t *testing.T) {
	f := DefaultFormatter()

	got := f.Currency(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasPrefix(got, "¥"), got)
	assert.Contains(t, got, "1,234")

	assert.Equal(t, "¥300", f.Currency(decimal.NewFromInt(300)))
	assert.Equal(t, "¥0", f.Currency(decimal.Zero))
}

func TestCurrencyCustomSymbol(t *testing.T) {
	f := NewFormatter("$", "en-US", "")
	assert.Equal(t, "$1,000,000", f.CurrencyFloat(1000000))
}

func TestNewFormatterBadLocale(t *testing.T) {
	f := NewFormatter("¥", "!!", "")
	assert.Equal(t, "¥12,345", f.CurrencyFloat(12345))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "12,345", DefaultFormatter().Count(12345))
	assert.Equal(t, "7", DefaultFormatter().Count(7))
}

func TestDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024/3/5", DefaultFormatter().Date(d))
	assert.Equal(t, "05.03.2024", NewFormatter("€", "de-DE", "02.01.2006").Date(d))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{85 * time.Millisecond, "85ms"},
		{1234 * time.Millisecond, "1.2s"},
		{0, "0ms"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Total"},
		Rows: [][]string{
			{"餐饮", "¥12"},
			{"transport", "¥1,200"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 6)
	width := 0
	for _, l := range lines {
		w := lipgloss.Width(l)
		if width == 0 {
			width = w
		}
		assert.Equal(t, width, w, "line %q", l)
	}
}

func TestRenderPercentBarClamps(t *testing.T) {
	full := lipgloss.Width(RenderPercentBar(decimal.NewFromInt(150), 10))
	empty := lipgloss.Width(RenderPercentBar(decimal.NewFromInt(-5), 10))
	assert.Equal(t, 10, full)
	assert.Equal(t, 10, empty)
}

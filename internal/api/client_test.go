package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a chi router to an httptest server and returns a
// client pointed at it.
func newTestServer(t *testing.T, setup func(r chi.Router)) *Client {
	t.Helper()
	r := chi.NewRouter()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:5000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestFetchMonthlyStatsYearParam(t *testing.T) {
	var gotQuery []string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/monthly-stats", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = append(gotQuery, r.URL.RawQuery)
			writeJSON(w, http.StatusOK, `[{"month":"2024-01","year":2024,"total_amount":"12.50","transaction_count":2}]`)
		})
	})

	stats, err := c.FetchMonthlyStats(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "12.5", stats[0].TotalAmount.String())

	_, err = c.FetchMonthlyStats(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "year=2024"}, gotQuery)
}

func TestFetchCategoryAnalysisDateParams(t *testing.T) {
	var got []string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/category-analysis", func(w http.ResponseWriter, r *http.Request) {
			got = append(got, r.URL.RawQuery)
			writeJSON(w, http.StatusOK, `[]`)
		})
	})

	ctx := context.Background()
	_, err := c.FetchCategoryAnalysis(ctx, "", "")
	require.NoError(t, err)
	_, err = c.FetchCategoryAnalysis(ctx, "2024-01-01", "")
	require.NoError(t, err)
	_, err = c.FetchCategoryAnalysis(ctx, "2024-01-01", "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"",
		"start_date=2024-01-01",
		"end_date=2024-03-31&start_date=2024-01-01",
	}, got)
}

func TestFetchRecentExpensesDefaultLimit(t *testing.T) {
	var limit string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/recent-expenses", func(w http.ResponseWriter, r *http.Request) {
			limit = r.URL.Query().Get("limit")
			writeJSON(w, http.StatusOK, `[{"expense_date":"2024-03-01","category":"餐饮","amount":"9.9","description":null}]`)
		})
	})

	rows, err := c.FetchRecentExpenses(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "10", limit)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Description)
}

func TestFetchTrendDataEncodesCategory(t *testing.T) {
	var days, category string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/trend-data", func(w http.ResponseWriter, r *http.Request) {
			days = r.URL.Query().Get("days")
			category = r.URL.Query().Get("category")
			writeJSON(w, http.StatusOK, `[{"date":"2024-01-01","amount":"3"}]`)
		})
	})

	tp, err := c.FetchTrendData(context.Background(), "餐饮 & 外卖", 0)
	require.NoError(t, err)
	assert.Equal(t, "365", days)
	assert.Equal(t, "餐饮 & 外卖", category)
	assert.Equal(t, 1, tp.Points)
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/yearly-stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"error":"数据库连接失败"}`)
		})
	})

	_, err := c.FetchYearlyStats(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "数据库连接失败", se.Message)
	assert.Equal(t, "yearly stats", se.Op)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
}

func TestMalformedPayloadFails(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/monthly-stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `[{"month":"2024-01","total_amount":"lots"}]`)
		})
	})

	_, err := c.FetchMonthlyStats(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_amount")
}

func TestOversizedBodyFails(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/monthly-stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, "["+strings.Repeat(" ", maxBodySize)+"]")
		})
	})

	_, err := c.FetchMonthlyStats(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body exceeds")
}

func TestContextCancelled(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/api/yearly-stats", func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchYearlyStats(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			if healthy.Load() {
				writeJSON(w, http.StatusOK, `{"status":"healthy","timestamp":"2024-03-01T10:00:00"}`)
				return
			}
			writeJSON(w, http.StatusInternalServerError, `{"status":"unhealthy","error":"Database connection failed"}`)
		})
	})

	ts, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:00:00", ts)

	healthy.Store(false)
	_, err = c.Health(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Database connection failed", se.Message)
}

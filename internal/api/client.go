// Package api provides a client for the expense statistics HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iterlife/expdash/internal/model"
)

const (
	defaultTimeout     = 10 * time.Second
	maxBodySize        = 1 << 20  // 1 MB
	defaultMaxExport   = 32 << 20 // 32 MB
	defaultRecentLimit = 10
	defaultTrendDays   = 365
	userAgent          = "github.com/iterlife/expdash/1.0"
)

// Client fetches statistics from the expense server. It only issues GETs and
// never retries; callers decide what a failure means.
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   time.Duration
	maxExport int64
	log       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxExportSize caps the size of an export download in bytes.
func WithMaxExportSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxExport = n
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client rooted at baseURL, e.g. "http://localhost:5000".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: empty base URL")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		base:      u,
		http:      &http.Client{},
		timeout:   defaultTimeout,
		maxExport: defaultMaxExport,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root this client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// FetchMonthlyStats returns monthly totals. A year of zero means all years.
func (c *Client) FetchMonthlyStats(ctx context.Context, year int) ([]model.MonthlyStat, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	body, err := c.get(ctx, "monthly stats", "/api/monthly-stats", q)
	if err != nil {
		return nil, err
	}
	stats, err := model.ParseMonthlyStats(body)
	if err != nil {
		return nil, fmt.Errorf("api: monthly stats: %w", err)
	}
	return stats, nil
}

// FetchCategoryAnalysis returns per-category shares for an optional
// YYYY-MM-DD window. Empty bounds are omitted.
func (c *Client) FetchCategoryAnalysis(ctx context.Context, start, end string) ([]model.CategoryStat, error) {
	q := url.Values{}
	if start != "" {
		q.Set("start_date", start)
	}
	if end != "" {
		q.Set("end_date", end)
	}
	body, err := c.get(ctx, "category analysis", "/api/category-analysis", q)
	if err != nil {
		return nil, err
	}
	stats, err := model.ParseCategoryStats(body)
	if err != nil {
		return nil, fmt.Errorf("api: category analysis: %w", err)
	}
	return stats, nil
}

// FetchRecentExpenses returns the newest expenses, limit defaulting to 10.
func (c *Client) FetchRecentExpenses(ctx context.Context, limit int) ([]model.RecentExpense, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	body, err := c.get(ctx, "recent expenses", "/api/recent-expenses", q)
	if err != nil {
		return nil, err
	}
	rows, err := model.ParseRecentExpenses(body)
	if err != nil {
		return nil, fmt.Errorf("api: recent expenses: %w", err)
	}
	return rows, nil
}

// FetchYearlyStats returns the years that have data.
func (c *Client) FetchYearlyStats(ctx context.Context) ([]model.YearlyStat, error) {
	body, err := c.get(ctx, "yearly stats", "/api/yearly-stats", nil)
	if err != nil {
		return nil, err
	}
	years, err := model.ParseYearlyStats(body)
	if err != nil {
		return nil, fmt.Errorf("api: yearly stats: %w", err)
	}
	return years, nil
}

// FetchTrendData returns the trend payload for a category over the last
// days days. An empty category means all categories.
func (c *Client) FetchTrendData(ctx context.Context, category string, days int) (model.TrendPayload, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	q := url.Values{"days": {strconv.Itoa(days)}}
	if category != "" {
		q.Set("category", category)
	}
	body, err := c.get(ctx, "trend data", "/api/trend-data", q)
	if err != nil {
		return model.TrendPayload{}, err
	}
	tp, err := model.ParseTrend(body)
	if err != nil {
		return model.TrendPayload{}, fmt.Errorf("api: trend data: %w", err)
	}
	return tp, nil
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// Health checks the server's /health endpoint and returns its timestamp.
func (c *Client) Health(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "health", "/health", nil)
	if err != nil {
		return "", err
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		return "", fmt.Errorf("api: parsing health: %w", err)
	}
	if h.Status != "healthy" {
		return "", &StatusError{Op: "health", StatusCode: http.StatusOK, Message: firstNonEmpty(h.Error, h.Status)}
	}
	return h.Timestamp, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	resp, cancel, err := c.do(ctx, op, path, q, "application/json")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("api: %s: reading response: %w", op, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("api: %s: body exceeds %d bytes", op, maxBodySize)
	}
	return body, nil
}

// do sends the request and checks the status. On success the caller owns
// the body and must call cancel once it has been read.
func (c *Client) do(ctx context.Context, op, path string, q url.Values, accept string) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("api: %s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("api: %s: request failed: %w", op, err)
	}
	c.log.Debug("api request", "op", op, "url", u.String(), "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer func() { _ = resp.Body.Close() }()
		return nil, nil, newStatusError(op, resp)
	}
	return resp, cancel, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

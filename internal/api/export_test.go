package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"quoted", `attachment; filename="expenses_monthly_20240301.csv"`, "expenses_monthly_20240301.csv"},
		{"bare", `attachment; filename=report.json`, "report.json"},
		{"rfc5987", `attachment; filename*=UTF-8''%E6%94%AF%E5%87%BA.csv`, "支出.csv"},
		{"missing", ``, "export.csv"},
		{"no filename", `attachment`, "export.csv"},
		{"path traversal", `attachment; filename="../../etc/passwd"`, "passwd"},
		{"windows path", `attachment; filename="C:\\tmp\\a.csv"`, "a.csv"},
		{"malformed", `attachment; filename=a b.csv; x`, "a b.csv"},
		{"dots", `attachment; filename=".."`, "export.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filenameFromDisposition(tt.header, "csv"))
		})
	}
}

func TestValidateExport(t *testing.T) {
	assert.NoError(t, ValidateExport("monthly", "csv"))
	assert.NoError(t, ValidateExport("category", "json"))
	assert.ErrorIs(t, ValidateExport("monthly", "xlsx"), ErrUnsupportedFormat)
	assert.ErrorIs(t, ValidateExport("weekly", "csv"), ErrUnsupportedType)
}

func TestExportDownload(t *testing.T) {
	var gotType string
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/export/{format}", func(w http.ResponseWriter, r *http.Request) {
			gotType = r.URL.Query().Get("type")
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="expenses_`+r.URL.Query().Get("type")+`.`+chi.URLParam(r, "format")+`"`)
			_, _ = w.Write([]byte("month,total\n2024-01,12.50\n"))
		})
	})

	f, err := c.Export(context.Background(), "monthly", "csv")
	require.NoError(t, err)
	assert.Equal(t, "monthly", gotType)
	assert.Equal(t, "expenses_monthly.csv", f.Name)
	assert.Equal(t, "text/csv", f.ContentType)
	assert.Equal(t, "month,total\n2024-01,12.50\n", string(f.Data))
}

func TestExportRejectsBeforeRequest(t *testing.T) {
	called := false
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/export/{format}", func(w http.ResponseWriter, _ *http.Request) {
			called = true
		})
	})

	_, err := c.Export(context.Background(), "monthly", "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, called)
}

func TestExportTooLarge(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/export/{format}", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		})
	})
	WithMaxExportSize(16)(c)

	_, err := c.Export(context.Background(), "yearly", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestExportServerError(t *testing.T) {
	c := newTestServer(t, func(r chi.Router) {
		r.Get("/export/{format}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"error":"无效的数据类型"}`)
		})
	})

	_, err := c.Export(context.Background(), "category", "csv")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "无效的数据类型", se.Message)
}

package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/iterlife/expdash/internal/model"
)

// Export formats and data types the server accepts.
var (
	ExportFormats = []string{"csv", "json"}
	ExportTypes   = []string{"monthly", "yearly", "category"}
)

// ValidateExport checks an export request against the accepted sets.
func ValidateExport(dataType, format string) error {
	if !slices.Contains(ExportFormats, format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if !slices.Contains(ExportTypes, dataType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, dataType)
	}
	return nil
}

// Export downloads /export/{format}?type={dataType}. The returned file is
// named from Content-Disposition, falling back to "export.{format}".
func (c *Client) Export(ctx context.Context, dataType, format string) (*model.ExportFile, error) {
	if err := ValidateExport(dataType, format); err != nil {
		return nil, err
	}

	q := url.Values{"type": {dataType}}
	resp, cancel, err := c.do(ctx, "export", "/export/"+url.PathEscape(format), q, "*/*")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxExport+1))
	if err != nil {
		return nil, fmt.Errorf("api: export: reading response: %w", err)
	}
	if int64(len(data)) > c.maxExport {
		return nil, fmt.Errorf("api: export: body exceeds %d bytes", c.maxExport)
	}

	return &model.ExportFile{
		Name:        filenameFromDisposition(resp.Header.Get("Content-Disposition"), format),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// filenameFromDisposition extracts a safe base filename from a
// Content-Disposition header.
func filenameFromDisposition(header, format string) string {
	fallback := "export." + format

	name := ""
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	}
	if name == "" {
		if i := strings.Index(header, "filename="); i >= 0 {
			name = header[i+len("filename="):]
			if j := strings.IndexByte(name, ';'); j >= 0 {
				name = name[:j]
			}
			name = strings.Trim(strings.TrimSpace(name), `"'`)
		}
	}

	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return fallback
	}
	return name
}

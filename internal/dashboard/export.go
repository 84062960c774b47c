package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/iterlife/expdash/internal/model"
)

// SavedExport describes an export written to disk.
type SavedExport struct {
	Path string
	Name string
	Size int64
}

// HumanSize returns the size in human units, e.g. "1.2 kB".
func (s SavedExport) HumanSize() string {
	return humanize.Bytes(uint64(s.Size))
}

// Export downloads dataType in format and saves it under dir with the name
// the server suggested. Exports do not cancel one another.
func (c *Controller) Export(ctx context.Context, dataType, format, dir string) (SavedExport, error) {
	f, err := c.api.Export(ctx, dataType, format)
	if err != nil {
		c.log.Error("export failed", "type", dataType, "format", format, "error", err)
		return SavedExport{}, &SourceError{Source: SourceExport, Err: err}
	}

	saved, err := saveExport(dir, f)
	if err != nil {
		c.log.Error("export failed", "type", dataType, "format", format, "error", err)
		return SavedExport{}, &SourceError{Source: SourceExport, Err: err}
	}

	c.log.Info("export saved", "type", dataType, "format", format, "path", saved.Path, "size", saved.HumanSize())
	return saved, nil
}

// saveExport writes f to a temp file in dir and renames it into place, so a
// partially written export never appears under the final name.
func saveExport(dir string, f *model.ExportFile) (SavedExport, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SavedExport{}, fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".expdash-export-*")
	if err != nil {
		return SavedExport{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(f.Data); err != nil {
		return SavedExport{}, fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return SavedExport{}, fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return SavedExport{}, fmt.Errorf("writing export: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(f.Name))
	if err := os.Rename(tmpName, path); err != nil {
		return SavedExport{}, fmt.Errorf("saving export: %w", err)
	}
	ok = true

	return SavedExport{Path: path, Name: filepath.Base(path), Size: int64(len(f.Data))}, nil
}

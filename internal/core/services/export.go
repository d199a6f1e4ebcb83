package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// ExportFile writes the report's spreadsheet to path through svc.
// The workbook is written to a temporary file in the same directory and
// renamed over path only after a successful export, so an existing file at
// path is left untouched when the export fails or there is nothing to export.
func ExportFile(ctx context.Context, svc driving.ReconcileService, report *domain.Report, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if err := svc.Export(ctx, report, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}

func TestExportFile(t *testing.T) {
	svc := newReconcileService(&mockRegistry{}, &mockWriter{})
	report, err := svc.Reconcile(context.Background(), driving.ReconcileRequest{
		Pipeline:  "test",
		Reference: testTable(),
		Documents: []domain.RawDocument{rawDoc("john.pdf", letter("John Doe", "1000", "50"))},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bonus_checked.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("earlier export"), 0o644))

	require.NoError(t, ExportFile(context.Background(), svc, report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(data))
	assertOnlyFile(t, dir, "bonus_checked.xlsx")
}

func TestExportFile_NothingToExportKeepsExistingFile(t *testing.T) {
	svc := newReconcileService(&mockRegistry{}, &mockWriter{})
	report, err := svc.Reconcile(context.Background(), driving.ReconcileRequest{
		Pipeline:  "test",
		Reference: testTable(),
	})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bonus_checked.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("earlier export"), 0o644))

	err = ExportFile(context.Background(), svc, report, path)
	assert.ErrorIs(t, err, domain.ErrNothingToExport)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier export", string(data))
	assertOnlyFile(t, dir, "bonus_checked.xlsx")
}

func TestExportFile_WriterFailureCreatesNothing(t *testing.T) {
	svc := newReconcileService(&mockRegistry{}, &mockWriter{err: errors.New("boom")})
	report := &domain.Report{Spreadsheet: &domain.SpreadsheetData{}}

	dir := t.TempDir()
	err := ExportFile(context.Background(), svc, report, filepath.Join(dir, "out.xlsx"))
	assert.ErrorContains(t, err, "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportFile_MissingDirectory(t *testing.T) {
	svc := newReconcileService(&mockRegistry{}, &mockWriter{})
	report := &domain.Report{Spreadsheet: &domain.SpreadsheetData{}}

	err := ExportFile(context.Background(), svc, report, filepath.Join(t.TempDir(), "missing", "out.xlsx"))
	assert.ErrorContains(t, err, "creating export file")
}

package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// ReconcileRequest describes one batch.
type ReconcileRequest struct {
	// Pipeline is the pipeline ID, e.g. "bonus-en".
	Pipeline string

	// Reference is the caller's reference table. It is never mutated.
	Reference *domain.ReferenceTable

	// Documents are processed strictly in slice order.
	Documents []domain.RawDocument

	// Duplicates selects the duplicate-identity policy. Empty means last-wins.
	Duplicates domain.DuplicatePolicy
}

// ReconcileService runs reconciliations and exports their reports.
type ReconcileService interface {
	// Reconcile extracts text from every document, reconciles the batch and
	// renders the report. Only a schema mismatch or an unknown pipeline
	// returns an error; per-document failures appear as skipped documents.
	Reconcile(ctx context.Context, req ReconcileRequest) (*domain.Report, error)

	// Export writes the report's highlighted spreadsheet to w.
	// Returns domain.ErrNothingToExport when no rows were processed.
	Export(ctx context.Context, report *domain.Report, w io.Writer) error
}

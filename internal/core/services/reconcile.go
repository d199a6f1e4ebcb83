package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure ReconcileService implements the interface.
var _ driving.ReconcileService = (*ReconcileService)(nil)

// ErrExportUnavailable is returned when no spreadsheet writer is configured.
var ErrExportUnavailable = errors.New("spreadsheet export is not configured")

// ReconcileService wires text extraction, the engine and the renderer.
type ReconcileService struct {
	pipelines  *PipelineService
	extractors driven.ExtractorRegistry
	writer     driven.SpreadsheetWriter
	fillColor  string
}

// NewReconcileService creates a reconcile service.
// writer may be nil, in which case Export returns ErrExportUnavailable.
func NewReconcileService(
	pipelines *PipelineService,
	extractors driven.ExtractorRegistry,
	writer driven.SpreadsheetWriter,
	fillColor string,
) *ReconcileService {
	return &ReconcileService{
		pipelines:  pipelines,
		extractors: extractors,
		writer:     writer,
		fillColor:  fillColor,
	}
}

// Reconcile runs one batch. Documents are handled one at a time in request
// order; a failure on one document is recorded as a skip and never aborts
// the batch. Cancelling ctx stops the batch between documents.
func (s *ReconcileService) Reconcile(ctx context.Context, req driving.ReconcileRequest) (*domain.Report, error) {
	g, err := s.pipelines.Grammar(req.Pipeline)
	if err != nil {
		return nil, err
	}
	pipeline := g.Pipeline()

	engine, err := NewEngine(pipeline, req.Reference, g, g, EngineOptions{Duplicates: req.Duplicates})
	if err != nil {
		return nil, err
	}

	for i := range req.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := &req.Documents[i]
		text, err := s.extractors.Extract(ctx, raw)
		if err != nil {
			engine.Skip(raw.Name, domain.SkipExtractFailed, err.Error())
			continue
		}
		engine.Process(domain.DocumentRecord{Name: raw.Name, Text: text})
	}

	result := engine.Result()
	summary := result.Summarise()
	logger.Info("run %s: %d documents, %d matched, %d skipped, %d rows with mismatches",
		result.RunID, summary.Documents, summary.Matched, summary.Skipped, summary.Mismatched)
	return Render(pipeline, result, s.fillColor), nil
}

// Export writes the report's spreadsheet.
func (s *ReconcileService) Export(ctx context.Context, report *domain.Report, w io.Writer) error {
	if report == nil || report.Spreadsheet == nil {
		return domain.ErrNothingToExport
	}
	if s.writer == nil {
		return ErrExportUnavailable
	}
	if err := s.writer.Write(ctx, w, report.Spreadsheet); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// mockReconcileService is a mock implementation of driving.ReconcileService.
type mockReconcileService struct {
	report    *domain.Report
	err       error
	exportErr error
	request   driving.ReconcileRequest
}

func (m *mockReconcileService) Reconcile(_ context.Context, req driving.ReconcileRequest) (*domain.Report, error) {
	m.request = req
	return m.report, m.err
}

func (m *mockReconcileService) Export(_ context.Context, _ *domain.Report, w io.Writer) error {
	if m.exportErr != nil {
		return m.exportErr
	}
	_, err := w.Write([]byte("xlsx"))
	return err
}

// mockBatchLoader is a mock implementation of driving.BatchLoader.
type mockBatchLoader struct {
	reference *domain.ReferenceTable
	documents []domain.RawDocument
	err       error
}

func (m *mockBatchLoader) LoadReference(_ context.Context, _ string) (*domain.ReferenceTable, error) {
	return m.reference, m.err
}

func (m *mockBatchLoader) LoadDocuments(_ context.Context, _ []string) ([]domain.RawDocument, error) {
	return m.documents, m.err
}

func (m *mockBatchLoader) Watch(_ context.Context, _ []string) (<-chan domain.RawDocumentChange, error) {
	return nil, m.err
}

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	pipelines   []domain.Pipeline
	definitions map[string]grammar.Definition
	err         error
}

func (m *mockPipelineService) List(_ context.Context) ([]domain.Pipeline, error) {
	return m.pipelines, m.err
}

func (m *mockPipelineService) Get(_ context.Context, id string) (domain.Pipeline, error) {
	for _, p := range m.pipelines {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Pipeline{}, domain.ErrNotFound
}

func (m *mockPipelineService) Definition(_ context.Context, id string) (grammar.Definition, error) {
	if m.err != nil {
		return grammar.Definition{}, m.err
	}
	def, ok := m.definitions[id]
	if !ok {
		return grammar.Definition{}, domain.ErrNotFound
	}
	return def, nil
}

func (m *mockPipelineService) InitGrammars(_ context.Context) ([]string, error) {
	return nil, m.err
}

func testPipelines() *mockPipelineService {
	return &mockPipelineService{
		pipelines: []domain.Pipeline{{
			ID:       "bonus-en",
			Title:    "Deferred bonus (EN)",
			Category: domain.CategoryDeferredBonus,
			Language: domain.LanguageEnglish,
			Schema:   domain.NewSchema("NAME", "DEFERRED BONUS"),
		}},
		definitions: map[string]grammar.Definition{
			"bonus-en": {ID: "bonus-en", Title: "Deferred bonus (EN)", Identity: "NAME"},
		},
	}
}

func testReport() *domain.Report {
	return &domain.Report{
		RunID:    "run-1",
		Pipeline: "bonus-en",
		Summary:  domain.Summary{Documents: 2, Matched: 1, Skipped: 1, Processed: 1, Mismatched: 1},
		Display: domain.DisplayTable{
			Columns: []string{"NAME", "DEFERRED BONUS", "PDF SOURCE", "NOTES"},
			Rows: []domain.DisplayRow{{Row: 3, Identity: "JANE ROE", Cells: []domain.DisplayCell{
				{Text: "JANE ROE"},
				{Text: "❌ 2000", Status: domain.CellFail, Flagged: true},
				{Text: "jane.pdf"},
				{Text: "DEFERRED BONUS: In CSV: 2000// In PDF: 2000.75"},
			}}},
		},
		Skipped: []domain.MatchOutcome{{
			Document: "stranger.pdf", Row: -1, Identity: "JOHN SMITH", Skip: domain.SkipUnknownIdentity,
		}},
	}
}

package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// mockReconcileService implements driving.ReconcileService.
type mockReconcileService struct {
	report    *domain.Report
	err       error
	exportErr error
	requests  []driving.ReconcileRequest
}

func (m *mockReconcileService) Reconcile(_ context.Context, req driving.ReconcileRequest) (*domain.Report, error) {
	m.requests = append(m.requests, req)
	return m.report, m.err
}

func (m *mockReconcileService) Export(_ context.Context, _ *domain.Report, w io.Writer) error {
	if m.exportErr != nil {
		return m.exportErr
	}
	_, err := w.Write([]byte("xlsx"))
	return err
}

// mockPipelineService implements driving.PipelineService.
type mockPipelineService struct {
	pipelines []domain.Pipeline
	written   []string
	err       error
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
	if _, err := m.Get(context.Background(), id); err != nil {
		return grammar.Definition{}, err
	}
	return grammar.Definition{
		ID:       id,
		Identity: "NAME",
		Anchor:   grammar.Anchor{Pattern: `^May,\d{4}$`},
	}, nil
}

func (m *mockPipelineService) InitGrammars(_ context.Context) ([]string, error) {
	return m.written, m.err
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	key      string
}

func (m *mockSettingsService) Get() domain.Settings {
	return m.settings
}

func (m *mockSettingsService) AccessRequired() bool {
	return m.key != ""
}

func (m *mockSettingsService) VerifyAccessKey(key string) error {
	if key != m.key {
		return domain.ErrAccessDenied
	}
	return nil
}

func (m *mockSettingsService) SetAccessKey(key string) error {
	m.key = key
	return nil
}

// mockBatchLoader implements driving.BatchLoader.
type mockBatchLoader struct {
	paths []string
	err   error
}

func (m *mockBatchLoader) LoadReference(_ context.Context, _ string) (*domain.ReferenceTable, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ReferenceTable{Columns: []string{"NAME", "DEFERRED BONUS"}}, nil
}

func (m *mockBatchLoader) LoadDocuments(_ context.Context, paths []string) ([]domain.RawDocument, error) {
	m.paths = paths
	docs := make([]domain.RawDocument, len(paths))
	for i, p := range paths {
		docs[i] = domain.RawDocument{Name: p}
	}
	return docs, m.err
}

func (m *mockBatchLoader) Watch(_ context.Context, _ []string) (<-chan domain.RawDocumentChange, error) {
	return nil, m.err
}

func testReport() *domain.Report {
	return &domain.Report{
		RunID:    "run-1",
		Pipeline: "bonus-en",
		Summary:  domain.Summary{Documents: 2, Matched: 1, Skipped: 1, Processed: 1, Mismatched: 1},
		Display: domain.DisplayTable{
			Columns: []string{"NAME", "DEFERRED BONUS", "PDF SOURCE", "NOTES"},
			Rows: []domain.DisplayRow{{Row: 0, Identity: "JANE ROE", Cells: []domain.DisplayCell{
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

func testPipelineService() *mockPipelineService {
	return &mockPipelineService{pipelines: []domain.Pipeline{{
		ID:       "bonus-en",
		Title:    "Deferred bonus (EN)",
		Category: domain.CategoryDeferredBonus,
		Language: domain.LanguageEnglish,
		Schema:   domain.NewSchema("NAME", "DEFERRED BONUS"),
		Labels:   domain.Labels{ExportName: "bonus_checked.xlsx"},
	}}}
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	reconcile *mockReconcileService
	pipelines *mockPipelineService
	settings  *mockSettingsService
	loader    *mockBatchLoader
}

// setupTestServices installs mocks and resets all command flags.
// The returned function restores an unconfigured state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		reconcile: &mockReconcileService{report: testReport()},
		pipelines: testPipelineService(),
		settings:  &mockSettingsService{},
		loader:    &mockBatchLoader{},
	}
	SetServices(&Services{
		Reconcile: ts.reconcile,
		Pipelines: ts.pipelines,
		Settings:  ts.settings,
		Loader:    ts.loader,
	})
	resetFlags(rootCmd)
	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	}
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

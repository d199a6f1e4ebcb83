package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

type mockReconcileService struct {
	exported []byte
	err      error
}

func (m *mockReconcileService) Reconcile(_ context.Context, _ driving.ReconcileRequest) (*domain.Report, error) {
	return nil, errors.New("not used")
}

func (m *mockReconcileService) Export(_ context.Context, _ *domain.Report, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	m.exported = []byte("xlsx")
	_, err := w.Write(m.exported)
	return err
}

func testReport() *domain.Report {
	return &domain.Report{
		RunID:    "run-1",
		Pipeline: "bonus-en",
		Summary:  domain.Summary{Documents: 2, Matched: 1, Skipped: 1, Processed: 1},
		Display: domain.DisplayTable{
			Columns: []string{"NAME", "PDF SOURCE", "NOTES"},
			Rows: []domain.DisplayRow{{Row: 0, Identity: "JOHN DOE", Cells: []domain.DisplayCell{
				{Text: "JOHN DOE"}, {Text: "john.pdf"}, {Text: ""},
			}}},
		},
		Skipped: []domain.MatchOutcome{{Document: "blank.pdf", Row: -1, Skip: domain.SkipEmptyText}},
	}
}

func newTestApp(t *testing.T, svc *mockReconcileService, exportPath string) *App {
	t.Helper()
	app, err := NewApp(NewPorts(svc), testReport(), exportPath)
	require.NoError(t, err)
	app.SetDimensions(160, 40)
	return app
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Validation(t *testing.T) {
	_, err := NewApp(nil, testReport(), "")
	assert.ErrorIs(t, err, ErrMissingReconcileService)

	_, err = NewApp(&Ports{}, testReport(), "")
	assert.ErrorIs(t, err, ErrMissingReconcileService)

	_, err = NewApp(NewPorts(&mockReconcileService{}), nil, "")
	assert.ErrorIs(t, err, ErrMissingReport)
}

func TestApp_InitAndReady(t *testing.T) {
	app, err := NewApp(NewPorts(&mockReconcileService{}), testReport(), "")
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.statusBar.Width())
}

func TestApp_View(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")

	view := app.View()

	assert.Contains(t, view, "bonus-en")
	assert.Contains(t, view, "run-1")
	assert.Contains(t, view, "Processed rows (1)")
	assert.Contains(t, view, "2 documents, 1 matched, 1 skipped")
}

func TestApp_SwitchViews(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")
	assert.Equal(t, messages.ViewResults, app.CurrentView())

	_, cmd := app.Update(key("tab"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSkipped}, cmd())
	assert.Equal(t, messages.ViewSkipped, app.CurrentView())
	assert.Contains(t, app.View(), "Skipped documents (1)")

	app.Update(key("tab"))
	assert.Equal(t, messages.ViewResults, app.CurrentView())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")
	app.Update(key("tab"))

	app.Update(key("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Equal(t, status.StateHelp, app.statusBar.State())
	assert.Contains(t, app.View(), "rows/skipped")

	app.Update(key("esc"))
	assert.Equal(t, messages.ViewSkipped, app.CurrentView())
	assert.Equal(t, status.StateReady, app.statusBar.State())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")

	_, cmd := app.Update(key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	svc := &mockReconcileService{}
	app := newTestApp(t, svc, path)

	_, cmd := app.Update(key("e"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.ExportRequested{}, msg)

	_, cmd = app.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateExporting, app.statusBar.State())

	done := cmd()
	assert.Equal(t, messages.ExportCompleted{Path: path}, done)
	app.Update(done)

	assert.Equal(t, status.StateExported, app.statusBar.State())
	assert.Equal(t, path, app.statusBar.Message())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(data))
}

func TestApp_ExportFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	app := newTestApp(t, &mockReconcileService{err: domain.ErrNothingToExport}, path)

	_, cmd := app.Update(messages.ExportRequested{})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrNothingToExport)
	assert.Equal(t, status.StateError, app.statusBar.State())
	assert.NoFileExists(t, path)
}

func TestApp_ExportFailureKeepsEarlierFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("earlier export"), 0o644))
	app := newTestApp(t, &mockReconcileService{err: domain.ErrNothingToExport}, path)

	_, cmd := app.Update(messages.ExportRequested{})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrNothingToExport)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier export", string(data))
}

func TestApp_ExportWithoutPath(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")

	_, cmd := app.Update(messages.ExportRequested{})

	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "Error: boom")
}

func TestApp_ForwardsKeysToResults(t *testing.T) {
	app := newTestApp(t, &mockReconcileService{}, "")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.RowSelected{Index: 0}, cmd())
	assert.True(t, app.resultsView.ShowingDetail())
}

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingReconcileService)
	assert.NoError(t, NewPorts(&mockReconcileService{}).Validate())
}

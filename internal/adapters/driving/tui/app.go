package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/views/skipped"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/services"
)

// App is the report viewer following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// report is the reconciliation being viewed.
	report *domain.Report

	// exportPath is where the highlighted spreadsheet is written.
	exportPath string

	// resultsView shows the processed rows.
	resultsView *results.View

	// skippedView lists skipped documents.
	skippedView *skipped.View

	// statusBar shows the summary and key hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help closes.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a viewer for one report. exportPath may be empty, which
// disables export.
func NewApp(ports *Ports, report *domain.Report, exportPath string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingReport)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetSummary(report.Summary)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		report:      report,
		exportPath:  exportPath,
		resultsView: results.NewView(s, report.Display),
		skippedView: skipped.NewView(s, report.Skipped),
		statusBar:   bar,
		currentView: messages.ViewResults,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle(fmt.Sprintf("grantcheck - %s", a.report.Pipeline))
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(key, a.keymap.Help):
			a.toggleHelp()
			return a, nil
		case a.currentView == messages.ViewHelp:
			if keymap.Matches(key, a.keymap.Back) {
				a.toggleHelp()
			}
			return a, nil
		case keymap.Matches(key, a.keymap.Switch):
			if a.currentView == messages.ViewResults {
				a.currentView = messages.ViewSkipped
			} else {
				a.currentView = messages.ViewResults
			}
			return a, func() tea.Msg { return messages.ViewChanged{View: a.currentView} }
		case keymap.Matches(key, a.keymap.Export):
			return a, func() tea.Msg { return messages.ExportRequested{} }
		}

	case messages.ViewChanged:
		a.statusBar.Clear()
		return a, nil

	case messages.ExportRequested:
		if a.exportPath == "" {
			a.showError(errors.New("no export path configured"))
			return a, nil
		}
		a.statusBar.SetState(status.StateExporting)
		return a, a.export()

	case messages.ExportCompleted:
		if msg.Err != nil {
			a.showError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.statusBar.SetState(status.StateExported)
		a.statusBar.SetMessage(msg.Path)
		return a, nil

	case messages.ErrorOccurred:
		a.showError(msg.Err)
		return a, nil
	}

	switch a.currentView {
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewSkipped:
		a.skippedView, cmd = a.skippedView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// export writes the spreadsheet to exportPath.
func (a *App) export() tea.Cmd {
	ctx, ports, report, path := a.ctx, a.ports, a.report, a.exportPath
	return func() tea.Msg {
		err := services.ExportFile(ctx, ports.Reconcile, report, path)
		return messages.ExportCompleted{Path: path, Err: err}
	}
}

func (a *App) toggleHelp() {
	if a.currentView == messages.ViewHelp {
		a.currentView = a.previousView
		a.statusBar.Clear()
		return
	}
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
	a.statusBar.SetState(status.StateHelp)
}

func (a *App) showError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSkipped:
		body = a.skippedView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewResults:
		body = a.resultsView.View()
	}

	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf("%s  run %s", a.report.Pipeline, a.report.RunID)))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(a.statusBar.View())
	return b.String()
}

// viewHelp renders the full keybinding list.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes the views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// header and status bar take three lines
	a.resultsView.SetDimensions(width, height-3)
	a.skippedView.SetDimensions(width, height-3)
	a.statusBar.SetWidth(width)
}

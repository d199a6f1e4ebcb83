// Package results provides the processed-rows view for the TUI.
package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

const (
	maxColumnWidth = 32
	detailHeight   = 6
)

// View shows one table row per processed reference row. Enter opens the
// per-field notes of the selected row.
type View struct {
	styles  *styles.Styles
	display domain.DisplayTable
	table   table.Model

	showDetail bool
	width      int
	height     int
}

// NewView creates a results view for a display table.
func NewView(s *styles.Styles, display domain.DisplayTable) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns(columns(display)),
		table.WithRows(rows(display)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = s.Header
	ts.Selected = s.Selected
	t.SetStyles(ts)

	return &View{styles: s, display: display, table: t}
}

// columns sizes each column to its widest cell, capped at maxColumnWidth.
func columns(display domain.DisplayTable) []table.Column {
	cols := make([]table.Column, len(display.Columns))
	for i, name := range display.Columns {
		w := lipgloss.Width(name)
		for _, r := range display.Rows {
			if i < len(r.Cells) {
				w = max(w, lipgloss.Width(r.Cells[i].Text))
			}
		}
		cols[i] = table.Column{Title: name, Width: min(w, maxColumnWidth)}
	}
	return cols
}

func rows(display domain.DisplayTable) []table.Row {
	out := make([]table.Row, len(display.Rows))
	for i, r := range display.Rows {
		row := make(table.Row, len(display.Columns))
		for j := range row {
			if j < len(r.Cells) {
				row[j] = r.Cells[j].Text
			}
		}
		out[i] = row
	}
	return out
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if len(v.display.Rows) == 0 {
				return v, nil
			}
			v.showDetail = true
			v.resize()
			index := v.table.Cursor()
			return v, func() tea.Msg { return messages.RowSelected{Index: index} }
		case "esc":
			v.showDetail = false
			v.resize()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the results view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Processed rows (%d)", len(v.display.Rows))))
	b.WriteString("\n\n")

	if len(v.display.Rows) == 0 {
		b.WriteString(v.styles.Muted.Render("No reference row received a matching document."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(v.table.View())
	b.WriteString("\n")

	if v.showDetail {
		b.WriteString("\n")
		b.WriteString(v.renderDetail())
	}
	return b.String()
}

// renderDetail lists each comparison field of the selected row.
func (v *View) renderDetail() string {
	row, ok := v.SelectedRow()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(row.Identity))
	b.WriteString("\n")
	failed := 0
	for i, cell := range row.Cells {
		if cell.Status != domain.CellFail || i >= len(v.display.Columns) {
			continue
		}
		failed++
		b.WriteString(v.styles.Fail.Render(fmt.Sprintf("  %s: %s", v.display.Columns[i], cell.Text)))
		b.WriteString("\n")
	}
	if failed == 0 {
		b.WriteString(v.styles.Pass.Render("  all fields match"))
		b.WriteString("\n")
	} else if notes := row.Cells[len(row.Cells)-1].Text; notes != "" {
		b.WriteString(v.styles.Muted.Render("  " + notes))
		b.WriteString("\n")
	}
	return b.String()
}

// resize fits the table to the available height.
func (v *View) resize() {
	if v.height == 0 {
		return
	}
	h := v.height - 6
	if v.showDetail {
		h -= detailHeight
	}
	v.table.SetHeight(max(h, 3))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.table.SetWidth(width)
	v.resize()
}

// SelectedRow returns the display row under the cursor.
func (v *View) SelectedRow() (domain.DisplayRow, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.display.Rows) {
		return domain.DisplayRow{}, false
	}
	return v.display.Rows[i], true
}

// ShowingDetail reports whether the notes pane is open.
func (v *View) ShowingDetail() bool {
	return v.showDetail
}

package services

import (
	"strings"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// noteSeparator joins the notes of one row.
const noteSeparator = " | "

// exportColumns returns the reference columns followed by the provenance
// and notes columns. Fill targeting depends on this exact order.
func exportColumns(p domain.Pipeline, table *domain.ReferenceTable) []string {
	cols := make([]string, 0, len(table.Columns)+2)
	cols = append(cols, table.Columns...)
	return append(cols, p.Labels.SourceColumn, p.Labels.NotesColumn)
}

// rowNotes joins the mismatch notes of a row in column order.
func rowNotes(outcome *domain.RowOutcome) string {
	var notes []string
	for _, f := range outcome.Fields {
		if !f.Equal {
			notes = append(notes, f.Note)
		}
	}
	return strings.Join(notes, noteSeparator)
}

// RenderDisplay builds the on-screen table: processed rows only, in
// reference-table order. Comparison cells carry a pass or fail marker in
// front of the reference value; failed cells are flagged.
func RenderDisplay(p domain.Pipeline, result *domain.ReconciliationResult) domain.DisplayTable {
	table := result.Table
	if table == nil {
		table = &domain.ReferenceTable{}
	}
	display := domain.DisplayTable{Columns: exportColumns(p, table)}

	for _, row := range result.Processed() {
		outcome := result.Rows[row]
		cells := make([]domain.DisplayCell, 0, len(display.Columns))
		for _, col := range table.Columns {
			value := table.Value(row, col)
			f, compared := outcome.Field(col)
			switch {
			case !compared:
				cells = append(cells, domain.DisplayCell{Text: value})
			case f.Equal:
				cells = append(cells, domain.DisplayCell{Text: domain.PassMarker + " " + value, Status: domain.CellPass})
			default:
				cells = append(cells, domain.DisplayCell{
					Text:    domain.FailMarker + " " + value,
					Status:  domain.CellFail,
					Flagged: true,
				})
			}
		}
		cells = append(cells,
			domain.DisplayCell{Text: outcome.Source},
			domain.DisplayCell{Text: rowNotes(outcome)},
		)
		display.Rows = append(display.Rows, domain.DisplayRow{Row: row, Identity: outcome.Identity, Cells: cells})
	}
	return display
}

// BuildSpreadsheet lays out the export: the processed rows with every
// reference column plus provenance and notes, and one fill per mismatched
// cell. Header is row 1, so the n-th exported row lands on row n+2 with n
// counted from zero; columns are 1-based positions in the export column list.
//
// Returns domain.ErrNothingToExport when no row was processed.
func BuildSpreadsheet(p domain.Pipeline, result *domain.ReconciliationResult, fillColor string) (*domain.SpreadsheetData, error) {
	if result.Empty() {
		return nil, domain.ErrNothingToExport
	}
	if fillColor == "" {
		fillColor = domain.DefaultFillColor
	}

	table := result.Table
	columns := exportColumns(p, table)
	position := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := position[c]; !ok {
			position[c] = i + 1
		}
	}

	data := &domain.SpreadsheetData{
		SheetName: p.Labels.SheetName,
		Columns:   columns,
		FillColor: fillColor,
	}
	for n, row := range result.Processed() {
		outcome := result.Rows[row]
		cells := make([]string, 0, len(columns))
		for _, col := range table.Columns {
			cells = append(cells, table.Value(row, col))
		}
		cells = append(cells, outcome.Source, rowNotes(outcome))
		data.Rows = append(data.Rows, cells)

		for _, field := range outcome.Mismatched() {
			data.Fills = append(data.Fills, domain.CellFill{Row: n + 2, Column: position[field]})
		}
	}
	return data, nil
}

// Render assembles the full report. The spreadsheet is omitted when no row
// was processed.
func Render(p domain.Pipeline, result *domain.ReconciliationResult, fillColor string) *domain.Report {
	report := &domain.Report{
		RunID:    result.RunID,
		Pipeline: p.ID,
		Summary:  result.Summarise(),
		Display:  RenderDisplay(p, result),
		Skipped:  result.Skipped(),
	}
	if data, err := BuildSpreadsheet(p, result, fillColor); err == nil {
		report.Spreadsheet = data
	}
	return report
}

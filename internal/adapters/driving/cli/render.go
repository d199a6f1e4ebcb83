package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	headerStyle  = cellStyle.Bold(true)
	flaggedStyle = cellStyle.Background(lipgloss.Color(domain.DisplayFlagColour)).
			Foreground(lipgloss.Color("#000000"))
)

// renderReport formats a report for the terminal: the processed rows, the
// run summary and the skipped documents.
func renderReport(report *domain.Report) string {
	var b strings.Builder

	if len(report.Display.Rows) == 0 {
		b.WriteString("No reference row received a matching document.\n")
	} else {
		b.WriteString(renderDisplay(report.Display))
		b.WriteString("\n")
	}

	s := report.Summary
	fmt.Fprintf(&b, "\nRun %s (%s): %d documents, %d matched, %d skipped, %d rows processed, %d with mismatches\n",
		report.RunID, report.Pipeline, s.Documents, s.Matched, s.Skipped, s.Processed, s.Mismatched)

	if len(report.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, o := range report.Skipped {
			fmt.Fprintf(&b, "  %s [%s]", o.Document, o.Skip)
			if o.Identity != "" {
				fmt.Fprintf(&b, " %s", o.Identity)
			}
			if o.Detail != "" {
				fmt.Fprintf(&b, ": %s", o.Detail)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDisplay draws the display table, highlighting flagged cells.
func renderDisplay(display domain.DisplayTable) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(display.Columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(display.Rows) {
				cells := display.Rows[row].Cells
				if col < len(cells) && cells[col].Flagged {
					return flaggedStyle
				}
			}
			return cellStyle
		})

	for _, r := range display.Rows {
		texts := make([]string, len(display.Columns))
		for i := range texts {
			if i < len(r.Cells) {
				texts[i] = r.Cells[i].Text
			}
		}
		t.Row(texts...)
	}
	return t.Render()
}

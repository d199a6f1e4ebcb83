// Package xlsx writes reconciliation exports as Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.SpreadsheetWriter = (*Writer)(nil)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	invalidSheets = `:\/?*[]`
)

// Writer encodes spreadsheet data with excelize.
type Writer struct{}

// New creates an xlsx writer.
func New() *Writer {
	return &Writer{}
}

// Extension returns ".xlsx".
func (w *Writer) Extension() string {
	return ".xlsx"
}

// Write renders the header in bold, the rows in order, and applies a solid
// fill to every cell listed in data.Fills.
func (w *Writer) Write(ctx context.Context, out io.Writer, data *domain.SpreadsheetData) error {
	if data == nil {
		return fmt.Errorf("%w: no spreadsheet data", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(data.SheetName)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &data.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range data.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &data.Rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(data.Columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(data.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if len(data.Fills) > 0 {
		color := strings.TrimPrefix(data.FillColor, "#")
		if color == "" {
			color = domain.DefaultFillColor
		}
		fill, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("fill style: %w", err)
		}
		for _, c := range data.Fills {
			cell, err := excelize.CoordinatesToCellName(c.Column, c.Row)
			if err != nil {
				return fmt.Errorf("fill %d,%d: %w", c.Row, c.Column, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, fill); err != nil {
				return fmt.Errorf("fill %s: %w", cell, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return nil
}

// SheetName makes name acceptable to Excel: forbidden characters are
// replaced, the result is truncated to 31 characters and a blank name
// falls back to Sheet1.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheets, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		return defaultSheet
	}
	return name
}

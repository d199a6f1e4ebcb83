package domain

// CellStatus marks how a display cell compared.
type CellStatus int

const (
	// CellPlain is a cell that was not compared (identity, extra columns, provenance, notes).
	CellPlain CellStatus = iota

	// CellPass is a comparison cell whose values matched.
	CellPass

	// CellFail is a comparison cell whose values differed.
	CellFail
)

// String returns a short label for the status.
func (s CellStatus) String() string {
	switch s {
	case CellPass:
		return "pass"
	case CellFail:
		return "fail"
	default:
		return "plain"
	}
}

// Pass and fail markers prefixed to comparison cells.
const (
	PassMarker = "✅"
	FailMarker = "❌"
)

// DisplayCell is one cell of the on-screen table.
type DisplayCell struct {
	Text    string     `json:"text"`
	Status  CellStatus `json:"status"`
	Flagged bool       `json:"flagged"`
}

// DisplayRow is one processed reference row.
type DisplayRow struct {
	Row      int           `json:"row"`
	Identity string        `json:"identity"`
	Cells    []DisplayCell `json:"cells"`
}

// DisplayTable is the annotated table handed to a display surface.
type DisplayTable struct {
	Columns []string     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// CellFill instructs the spreadsheet writer to fill one cell.
// Row and Column are 1-based; row 1 is the header.
type CellFill struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// SpreadsheetData is the ordered data set handed to a spreadsheet writer.
type SpreadsheetData struct {
	SheetName string
	Columns   []string
	Rows      [][]string
	Fills     []CellFill
	FillColor string
}

// Report bundles everything a surface needs to show one run.
type Report struct {
	RunID       string           `json:"run_id"`
	Pipeline    string           `json:"pipeline"`
	Summary     Summary          `json:"summary"`
	Display     DisplayTable     `json:"display"`
	Skipped     []MatchOutcome   `json:"skipped,omitempty"`
	Spreadsheet *SpreadsheetData `json:"-"`
}

package domain

// ReferenceRow is one row of a reference table.
// Cells are aligned with the table's Columns.
type ReferenceRow struct {
	Cells []string
}

// ReferenceTable is the authoritative tabular record documents are checked against.
// It is owned by the caller and treated as read-only by the engine.
type ReferenceTable struct {
	// Columns are the header names in file order.
	Columns []string

	// Rows are the data rows in file order.
	Rows []ReferenceRow
}

// Len returns the number of data rows.
func (t *ReferenceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1.
func (t *ReferenceTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column), or "" when out of range.
func (t *ReferenceTable) Value(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(t.Rows[row].Cells) {
		return ""
	}
	return t.Rows[row].Cells[idx]
}

// Clone returns a deep copy so callers' data is never mutated.
func (t *ReferenceTable) Clone() *ReferenceTable {
	if t == nil {
		return nil
	}
	out := &ReferenceTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]ReferenceRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = ReferenceRow{Cells: append([]string(nil), r.Cells...)}
	}
	return out
}

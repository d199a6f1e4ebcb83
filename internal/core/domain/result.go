package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SkipReason explains why a document contributed nothing to a result.
type SkipReason string

const (
	// SkipEmptyText means the extracted text was empty or whitespace-only.
	SkipEmptyText SkipReason = "empty_text"

	// SkipNoIdentity means no anchor line, or no name after it, was found.
	SkipNoIdentity SkipReason = "no_identity"

	// SkipUnknownIdentity means the name is not in the reference table.
	SkipUnknownIdentity SkipReason = "unknown_identity"

	// SkipPatternMismatch means a field pattern did not match.
	SkipPatternMismatch SkipReason = "pattern_mismatch"

	// SkipNumericFormat means a fixed-decimal field was not numeric.
	SkipNumericFormat SkipReason = "numeric_format"

	// SkipExtractFailed means the text extraction collaborator failed.
	SkipExtractFailed SkipReason = "extract_failed"

	// SkipDuplicateIdentity means the row was already matched and the
	// duplicate policy is reject.
	SkipDuplicateIdentity SkipReason = "duplicate_identity"
)

// DuplicatePolicy decides what happens when two documents resolve to the same row.
type DuplicatePolicy string

const (
	// DuplicateLastWins lets the later document replace the earlier outcome.
	DuplicateLastWins DuplicatePolicy = "last-wins"

	// DuplicateReject keeps the first outcome and skips later documents.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy validates a policy name. Empty selects last-wins.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateLastWins, nil
	case DuplicateLastWins, DuplicateReject:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate policy %q (want %s or %s)",
			ErrInvalidInput, s, DuplicateLastWins, DuplicateReject)
	}
}

// FieldResult is the comparison outcome for one comparison field.
type FieldResult struct {
	Field     string `json:"field"`
	Reference string `json:"reference"`
	Extracted string `json:"extracted"`
	Equal     bool   `json:"equal"`
	Note      string `json:"note,omitempty"`
}

// RowOutcome is the outcome recorded against one reference row.
type RowOutcome struct {
	// Row is the zero-based position in the reference table.
	Row int `json:"row"`

	// Identity is the normalised identity key.
	Identity string `json:"identity"`

	// Source is the display name of the document that produced this outcome.
	Source string `json:"source"`

	// Fields are the per-field results in schema order.
	Fields []FieldResult `json:"fields"`
}

// Mismatched returns the names of fields that did not compare equal.
func (o *RowOutcome) Mismatched() []string {
	var out []string
	for _, f := range o.Fields {
		if !f.Equal {
			out = append(out, f.Field)
		}
	}
	return out
}

// Field returns the result for a field by name.
func (o *RowOutcome) Field(name string) (FieldResult, bool) {
	for _, f := range o.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldResult{}, false
}

// MatchOutcome records what happened to one document, in input order.
type MatchOutcome struct {
	Document string     `json:"document"`
	Matched  bool       `json:"matched"`
	Row      int        `json:"row"`
	Identity string     `json:"identity,omitempty"`
	Skip     SkipReason `json:"skip,omitempty"`
	Detail   string     `json:"detail,omitempty"`
}

// ReconciliationResult is the outcome of one engine invocation.
// It is built fresh per run and never shared between runs.
type ReconciliationResult struct {
	RunID    string
	Pipeline string

	// Table is the normalised copy of the reference table used for comparison.
	Table *ReferenceTable

	// Rows holds the latest outcome per processed row.
	Rows map[int]*RowOutcome

	// Documents holds one outcome per input document, in input order.
	Documents []MatchOutcome

	StartedAt  time.Time
	FinishedAt time.Time
}

// Processed returns processed row positions in reference-table order.
func (r *ReconciliationResult) Processed() []int {
	rows := make([]int, 0, len(r.Rows))
	for row := range r.Rows {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// IsProcessed reports whether a row received at least one matching document.
func (r *ReconciliationResult) IsProcessed(row int) bool {
	_, ok := r.Rows[row]
	return ok
}

// Empty reports whether no row was processed.
func (r *ReconciliationResult) Empty() bool {
	return len(r.Rows) == 0
}

// Mismatches returns the mismatched field names for a row.
func (r *ReconciliationResult) Mismatches(row int) []string {
	o, ok := r.Rows[row]
	if !ok {
		return nil
	}
	return o.Mismatched()
}

// Note returns the discrepancy note for (row, field), if any.
func (r *ReconciliationResult) Note(row int, field string) (string, bool) {
	o, ok := r.Rows[row]
	if !ok {
		return "", false
	}
	f, ok := o.Field(field)
	if !ok || f.Equal {
		return "", false
	}
	return f.Note, true
}

// Provenance returns the contributing document name for a row.
func (r *ReconciliationResult) Provenance(row int) string {
	if o, ok := r.Rows[row]; ok {
		return o.Source
	}
	return ""
}

// Skipped returns the outcomes of documents that did not match.
func (r *ReconciliationResult) Skipped() []MatchOutcome {
	var out []MatchOutcome
	for _, d := range r.Documents {
		if !d.Matched {
			out = append(out, d)
		}
	}
	return out
}

// Summary aggregates counts for a result.
type Summary struct {
	Documents  int `json:"documents"`
	Matched    int `json:"matched"`
	Skipped    int `json:"skipped"`
	Processed  int `json:"processed_rows"`
	Mismatched int `json:"mismatched_rows"`
}

// Summarise counts documents and rows.
func (r *ReconciliationResult) Summarise() Summary {
	s := Summary{Documents: len(r.Documents), Processed: len(r.Rows)}
	for _, d := range r.Documents {
		if d.Matched {
			s.Matched++
		} else {
			s.Skipped++
		}
	}
	for _, o := range r.Rows {
		if len(o.Mismatched()) > 0 {
			s.Mismatched++
		}
	}
	return s
}

package domain

import "strings"

// Category is the kind of grant a document describes.
type Category string

const (
	// CategoryShares covers virtual share grant letters.
	CategoryShares Category = "shares"

	// CategoryDeferredBonus covers deferred bonus grant letters.
	CategoryDeferredBonus Category = "deferred-bonus"
)

// Language is the language a document template is written in.
type Language string

const (
	// LanguageSpanish is the Spanish template family.
	LanguageSpanish Language = "es"

	// LanguageEnglish is the English template family.
	LanguageEnglish Language = "en"
)

// DefaultNoteTemplate is used when a pipeline does not define its own.
// Placeholders: {field}, {reference}, {extracted}.
const DefaultNoteTemplate = "{field}: reference={reference} extracted={extracted}"

// Schema is the ordered list of reference columns a pipeline works with.
// Position 0 is the identity column; the rest are comparison columns.
// A Schema is immutable once built.
type Schema struct {
	columns []string
}

// NewSchema builds a schema from an identity column and its comparison columns.
func NewSchema(identity string, comparison ...string) Schema {
	columns := make([]string, 0, len(comparison)+1)
	columns = append(columns, identity)
	columns = append(columns, comparison...)
	return Schema{columns: columns}
}

// Identity returns the identity column name.
func (s Schema) Identity() string {
	if len(s.columns) == 0 {
		return ""
	}
	return s.columns[0]
}

// Comparison returns a copy of the comparison column names in order.
func (s Schema) Comparison() []string {
	if len(s.columns) < 2 {
		return nil
	}
	out := make([]string, len(s.columns)-1)
	copy(out, s.columns[1:])
	return out
}

// Columns returns a copy of all column names, identity first.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Missing returns the schema columns absent from the given header, in schema order.
func (s Schema) Missing(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range s.columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Labels are the localised strings a pipeline attaches to its report.
type Labels struct {
	// SourceColumn is the header of the provenance column.
	SourceColumn string

	// NotesColumn is the header of the notes column.
	NotesColumn string

	// NoteTemplate formats a single mismatch note.
	NoteTemplate string

	// ExportName is the default spreadsheet file name.
	ExportName string

	// SheetName is the worksheet name inside the spreadsheet.
	SheetName string
}

// Note renders a mismatch note for one field.
func (l Labels) Note(field, reference, extracted string) string {
	tmpl := l.NoteTemplate
	if tmpl == "" {
		tmpl = DefaultNoteTemplate
	}
	r := strings.NewReplacer("{field}", field, "{reference}", reference, "{extracted}", extracted)
	return r.Replace(tmpl)
}

// Pipeline is one (category x language) reconciliation configuration.
type Pipeline struct {
	// ID is the stable identifier, e.g. "shares-es".
	ID string

	// Title is a human-readable name.
	Title string

	// Category is the grant category.
	Category Category

	// Language is the template language.
	Language Language

	// Schema is the expected reference column layout.
	Schema Schema

	// Labels holds report strings.
	Labels Labels
}

package grammar

// AnchorMode selects how a line is prepared before the anchor pattern is applied.
type AnchorMode string

const (
	// AnchorTrimmed matches the anchor against the line with surrounding whitespace removed.
	AnchorTrimmed AnchorMode = "trimmed"

	// AnchorCompact matches the anchor against the line with all whitespace removed,
	// so "May , 2024" is seen as "May,2024".
	AnchorCompact AnchorMode = "compact"
)

// Definition is the declarative form of a pipeline grammar.
type Definition struct {
	ID       string      `toml:"id" json:"id" yaml:"id"`
	Title    string      `toml:"title" json:"title" yaml:"title"`
	Category string      `toml:"category" json:"category" yaml:"category"`
	Language string      `toml:"language" json:"language" yaml:"language"`
	Identity string      `toml:"identity" json:"identity" yaml:"identity"`
	Anchor   Anchor      `toml:"anchor" json:"anchor" yaml:"anchor"`
	Fields   []FieldRule `toml:"fields" json:"fields" yaml:"fields"`
	Labels   LabelSet    `toml:"labels" json:"labels" yaml:"labels"`
}

// Anchor locates the line that precedes the employee name.
type Anchor struct {
	Pattern string     `toml:"pattern" json:"pattern" yaml:"pattern"`
	Mode    AnchorMode `toml:"mode" json:"mode" yaml:"mode"`
}

// FieldRule extracts one comparison field.
// Pattern must contain exactly one capture group.
type FieldRule struct {
	Column  string `toml:"column" json:"column" yaml:"column"`
	Pattern string `toml:"pattern" json:"pattern" yaml:"pattern"`

	// Fixed renders the captured value with exactly two decimal places.
	Fixed bool `toml:"fixed" json:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// LabelSet holds the localised report strings.
type LabelSet struct {
	Source string `toml:"source" json:"source" yaml:"source"`
	Notes  string `toml:"notes" json:"notes" yaml:"notes"`
	Note   string `toml:"note" json:"note" yaml:"note"`
	Export string `toml:"export" json:"export" yaml:"export"`
	Sheet  string `toml:"sheet" json:"sheet" yaml:"sheet"`
}

// Columns returns the comparison column names in rule order.
func (d Definition) Columns() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Column
	}
	return out
}

package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/values"
)

// Default labels applied when a definition leaves them blank.
const (
	DefaultSourceColumn = "Source"
	DefaultNotesColumn  = "Notes"
	DefaultSheetName    = "Sheet1"
)

// Grammar is a compiled Definition.
type Grammar struct {
	pipeline domain.Pipeline
	anchor   *regexp.Regexp
	mode     AnchorMode
	fields   []compiledField
}

type compiledField struct {
	column  string
	pattern *regexp.Regexp
	fixed   bool
}

// Compile validates a definition and compiles its patterns.
// All patterns are matched case-insensitively.
func Compile(def Definition) (*Grammar, error) {
	id := strings.TrimSpace(def.ID)
	if id == "" {
		return nil, &domain.GrammarError{Pipeline: "(unnamed)", Err: errors.New("id is required")}
	}
	fail := func(field string, err error) error {
		return &domain.GrammarError{Pipeline: id, Field: field, Err: err}
	}

	if strings.TrimSpace(def.Identity) == "" {
		return nil, fail("", errors.New("identity column is required"))
	}
	if def.Anchor.Pattern == "" {
		return nil, fail("", errors.New("anchor pattern is required"))
	}
	mode := def.Anchor.Mode
	switch mode {
	case "":
		mode = AnchorTrimmed
	case AnchorTrimmed, AnchorCompact:
	default:
		return nil, fail("", fmt.Errorf("unknown anchor mode %q", mode))
	}
	anchor, err := regexp.Compile("(?i)" + def.Anchor.Pattern)
	if err != nil {
		return nil, fail("", fmt.Errorf("anchor: %w", err))
	}

	if len(def.Fields) == 0 {
		return nil, fail("", errors.New("at least one field rule is required"))
	}
	seen := map[string]bool{def.Identity: true}
	fields := make([]compiledField, 0, len(def.Fields))
	for _, rule := range def.Fields {
		if rule.Column == "" {
			return nil, fail("", errors.New("field rule without column"))
		}
		if seen[rule.Column] {
			return nil, fail(rule.Column, errors.New("duplicate column"))
		}
		seen[rule.Column] = true

		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fail(rule.Column, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fail(rule.Column, fmt.Errorf("pattern must have exactly one capture group, has %d", re.NumSubexp()))
		}
		fields = append(fields, compiledField{column: rule.Column, pattern: re, fixed: rule.Fixed})
	}

	return &Grammar{
		pipeline: pipelineOf(id, def),
		anchor:   anchor,
		mode:     mode,
		fields:   fields,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(def Definition) *Grammar {
	g, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return g
}

func pipelineOf(id string, def Definition) domain.Pipeline {
	labels := domain.Labels{
		SourceColumn: def.Labels.Source,
		NotesColumn:  def.Labels.Notes,
		NoteTemplate: def.Labels.Note,
		ExportName:   def.Labels.Export,
		SheetName:    def.Labels.Sheet,
	}
	if labels.SourceColumn == "" {
		labels.SourceColumn = DefaultSourceColumn
	}
	if labels.NotesColumn == "" {
		labels.NotesColumn = DefaultNotesColumn
	}
	if labels.ExportName == "" {
		labels.ExportName = id + ".xlsx"
	}
	if labels.SheetName == "" {
		labels.SheetName = DefaultSheetName
	}
	title := def.Title
	if title == "" {
		title = id
	}
	return domain.Pipeline{
		ID:       id,
		Title:    title,
		Category: domain.Category(def.Category),
		Language: domain.Language(def.Language),
		Schema:   domain.NewSchema(def.Identity, def.Columns()...),
		Labels:   labels,
	}
}

// Pipeline returns the pipeline described by the grammar.
func (g *Grammar) Pipeline() domain.Pipeline {
	return g.pipeline
}

// ExtractIdentity returns the first non-blank line after the first anchor line, trimmed.
func (g *Grammar) ExtractIdentity(text string) (string, bool) {
	lines := splitLines(text)
	for i, line := range lines {
		if !g.anchor.MatchString(g.prepare(line)) {
			continue
		}
		for _, next := range lines[i+1:] {
			if name := strings.TrimSpace(next); name != "" {
				return name, true
			}
		}
		// Everything after the first anchor is blank, so later anchors cannot succeed.
		return "", false
	}
	return "", false
}

func (g *Grammar) prepare(line string) string {
	if g.mode == AnchorCompact {
		return strings.Join(strings.Fields(line), "")
	}
	return strings.TrimSpace(foldSpaces(line))
}

// ExtractFields applies every field rule to the whole text.
//
// The result has one normalised value per comparison column, in schema order.
// If any rule fails to match the error wraps domain.ErrPatternMismatch and no
// values are returned. A fixed-decimal capture that is not a number yields a
// *domain.NumericFormatError.
func (g *Grammar) ExtractFields(text string) ([]string, error) {
	text = foldSpaces(text)
	captured := make([]string, len(g.fields))
	for i, f := range g.fields {
		m := f.pattern.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%w: no match for %s", domain.ErrPatternMismatch, f.column)
		}
		captured[i] = m[1]
	}

	out := make([]string, len(g.fields))
	for i, f := range g.fields {
		if !f.fixed {
			out[i] = values.Normalize(captured[i])
			continue
		}
		v, err := values.FormatFixed(f.column, captured[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// lineBreaks maps every line terminator, including page breaks, to "\n".
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\f", "\n",
	"\v", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
	"\x1c", "\n",
	"\x1d", "\n",
	"\x1e", "\n",
)

func splitLines(text string) []string {
	return strings.Split(lineBreaks.Replace(text), "\n")
}

// foldSpaces turns Unicode space separators such as NBSP into ASCII spaces
// so that \s in a pattern matches them.
func foldSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, text)
}

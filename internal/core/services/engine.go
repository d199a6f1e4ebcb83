package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/core/values"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// EngineOptions tunes one reconciliation run.
type EngineOptions struct {
	// Duplicates selects the duplicate-identity policy. Empty means last-wins.
	Duplicates domain.DuplicatePolicy

	// RunID identifies the run in logs and reports. Generated when empty.
	RunID string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Engine reconciles one batch of documents against a reference table.
//
// An Engine is built per run and discarded afterwards. Documents are
// processed strictly in the order Process is called; a later document
// resolving to an already-processed row replaces that row's outcome
// unless the duplicate policy is reject.
type Engine struct {
	pipeline domain.Pipeline
	identity driven.IdentityExtractor
	fields   driven.FieldExtractor
	opts     EngineOptions

	table      *domain.ReferenceTable
	identities map[string]int
	comparison []string
	result     *domain.ReconciliationResult
}

// NewEngine validates the reference table against the pipeline schema and
// prepares a normalised working copy of it. The caller's table is not modified.
//
// A missing column yields a *domain.SchemaMismatchError before any document
// is looked at.
func NewEngine(
	pipeline domain.Pipeline,
	table *domain.ReferenceTable,
	identity driven.IdentityExtractor,
	fields driven.FieldExtractor,
	opts EngineOptions,
) (*Engine, error) {
	if identity == nil || fields == nil {
		return nil, errors.New("engine requires identity and field extractors")
	}
	if pipeline.Schema.Identity() == "" {
		return nil, fmt.Errorf("%w: pipeline %q has no schema", domain.ErrInvalidInput, pipeline.ID)
	}

	var header []string
	if table != nil {
		header = table.Columns
	}
	if missing := pipeline.Schema.Missing(header); len(missing) > 0 {
		return nil, &domain.SchemaMismatchError{
			Pipeline: pipeline.ID,
			Required: pipeline.Schema.Columns(),
			Missing:  missing,
		}
	}

	if opts.Duplicates == "" {
		opts.Duplicates = domain.DuplicateLastWins
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{
		pipeline:   pipeline,
		identity:   identity,
		fields:     fields,
		opts:       opts,
		comparison: pipeline.Schema.Comparison(),
	}
	e.prepare(table)
	e.result = &domain.ReconciliationResult{
		RunID:     opts.RunID,
		Pipeline:  pipeline.ID,
		Table:     e.table,
		Rows:      make(map[int]*domain.RowOutcome),
		StartedAt: opts.Now(),
	}

	logger.Section("Reconcile " + pipeline.ID)
	logger.Debug("run %s: %d reference rows, duplicates=%s", opts.RunID, e.table.Len(), opts.Duplicates)
	return e, nil
}

// prepare clones the table, upper-cases the identity column, normalises the
// comparison columns and indexes rows by identity. The first row wins when
// two rows share an identity.
func (e *Engine) prepare(table *domain.ReferenceTable) {
	if table == nil {
		table = &domain.ReferenceTable{}
	}
	e.table = table.Clone()
	width := len(e.table.Columns)

	idCol := e.table.ColumnIndex(e.pipeline.Schema.Identity())
	cmpCols := make([]int, len(e.comparison))
	for i, c := range e.comparison {
		cmpCols[i] = e.table.ColumnIndex(c)
	}

	e.identities = make(map[string]int, len(e.table.Rows))
	for r := range e.table.Rows {
		row := &e.table.Rows[r]
		for len(row.Cells) < width {
			row.Cells = append(row.Cells, "")
		}

		key := values.IdentityKey(row.Cells[idCol])
		row.Cells[idCol] = key
		for _, c := range cmpCols {
			row.Cells[c] = values.Normalize(row.Cells[c])
		}

		if _, dup := e.identities[key]; dup {
			logger.Warn("reference row %d repeats identity %q; first row wins", r+1, key)
			continue
		}
		e.identities[key] = r
	}
}

// Process reconciles one document and records its outcome.
// It never fails: every problem with the document becomes a skip reason.
func (e *Engine) Process(doc domain.DocumentRecord) domain.MatchOutcome {
	if strings.TrimSpace(doc.Text) == "" {
		return e.Skip(doc.Name, domain.SkipEmptyText, "")
	}

	name, ok := e.identity.ExtractIdentity(doc.Text)
	if !ok {
		return e.Skip(doc.Name, domain.SkipNoIdentity, "")
	}
	key := values.IdentityKey(name)
	row, ok := e.identities[key]
	if !ok || key == "" {
		return e.skipIdentity(doc.Name, key, domain.SkipUnknownIdentity, key)
	}

	if e.opts.Duplicates == domain.DuplicateReject && e.result.IsProcessed(row) {
		return e.skipIdentity(doc.Name, key, domain.SkipDuplicateIdentity,
			"row already matched by "+e.result.Provenance(row))
	}

	extracted, err := e.fields.ExtractFields(doc.Text)
	if err == nil && len(extracted) != len(e.comparison) {
		err = domain.ErrPatternMismatch
	}
	if err != nil {
		reason := domain.SkipPatternMismatch
		if errors.Is(err, domain.ErrNumericFormat) {
			reason = domain.SkipNumericFormat
		}
		return e.skipIdentity(doc.Name, key, reason, err.Error())
	}

	outcome := &domain.RowOutcome{
		Row:      row,
		Identity: key,
		Source:   doc.Name,
		Fields:   make([]domain.FieldResult, len(e.comparison)),
	}
	for i, field := range e.comparison {
		reference := e.table.Value(row, field)
		fr := domain.FieldResult{
			Field:     field,
			Reference: reference,
			Extracted: extracted[i],
			Equal:     values.Equal(extracted[i], reference),
		}
		if !fr.Equal {
			fr.Note = e.pipeline.Labels.Note(field, reference, extracted[i])
		}
		outcome.Fields[i] = fr
	}

	if prev, ok := e.result.Rows[row]; ok {
		logger.Debug("row %d (%s): %s replaces %s", row+1, key, doc.Name, prev.Source)
	}
	e.result.Rows[row] = outcome

	match := domain.MatchOutcome{Document: doc.Name, Matched: true, Row: row, Identity: key}
	e.result.Documents = append(e.result.Documents, match)
	logger.Debug("%s -> row %d (%s), mismatched %v", doc.Name, row+1, key, outcome.Mismatched())
	return match
}

// Skip records a document that contributes nothing to the result.
// Callers use it for failures that happen before text reaches the engine.
func (e *Engine) Skip(name string, reason domain.SkipReason, detail string) domain.MatchOutcome {
	return e.skipIdentity(name, "", reason, detail)
}

func (e *Engine) skipIdentity(name, identity string, reason domain.SkipReason, detail string) domain.MatchOutcome {
	out := domain.MatchOutcome{
		Document: name,
		Row:      -1,
		Identity: identity,
		Skip:     reason,
		Detail:   detail,
	}
	e.result.Documents = append(e.result.Documents, out)
	logger.Skip(e.opts.RunID, name, string(reason), detail)
	return out
}

// Result stamps the finish time and returns the accumulated result.
func (e *Engine) Result() *domain.ReconciliationResult {
	e.result.FinishedAt = e.opts.Now()
	return e.result
}

// Reconcile runs a whole batch through a fresh Engine.
func Reconcile(
	pipeline domain.Pipeline,
	table *domain.ReferenceTable,
	docs []domain.DocumentRecord,
	identity driven.IdentityExtractor,
	fields driven.FieldExtractor,
	opts EngineOptions,
) (*domain.ReconciliationResult, error) {
	e, err := NewEngine(pipeline, table, identity, fields, opts)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		e.Process(doc)
	}
	return e.Result(), nil
}

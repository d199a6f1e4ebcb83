package driving

import (
	"context"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
)

// PipelineService exposes the catalogue of reconciliation pipelines.
type PipelineService interface {
	// List returns all pipelines ordered by ID.
	List(ctx context.Context) ([]domain.Pipeline, error)

	// Get returns one pipeline. Returns domain.ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (domain.Pipeline, error)

	// Definition returns the grammar definition behind a pipeline.
	Definition(ctx context.Context, id string) (grammar.Definition, error)

	// InitGrammars writes the built-in grammars to the user grammar directory.
	InitGrammars(ctx context.Context) ([]string, error)
}

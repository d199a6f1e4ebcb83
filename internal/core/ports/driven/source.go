package driven

import (
	"context"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// DocumentSource collects the document batch for a run.
type DocumentSource interface {
	// Collect expands paths into documents. Files keep argument order and
	// directories are expanded in lexical order. Unsupported files are ignored.
	Collect(ctx context.Context, paths []string) ([]domain.RawDocument, error)

	// Watch listens for changes under the given paths until ctx is cancelled.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}

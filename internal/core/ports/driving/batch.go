package driving

import (
	"context"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// BatchLoader turns file paths into the inputs of a ReconcileRequest.
type BatchLoader interface {
	// LoadReference reads the reference table at path.
	LoadReference(ctx context.Context, path string) (*domain.ReferenceTable, error)

	// LoadDocuments collects documents from files and directories.
	LoadDocuments(ctx context.Context, paths []string) ([]domain.RawDocument, error)

	// Watch reports document changes under paths until ctx is cancelled.
	Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error)
}

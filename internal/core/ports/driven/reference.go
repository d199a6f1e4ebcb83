package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// ReferenceReader parses a reference table from delimited text.
type ReferenceReader interface {
	// Read parses the whole stream. Column names are trimmed; cell values
	// are returned as written.
	Read(ctx context.Context, r io.Reader) (*domain.ReferenceTable, error)
}

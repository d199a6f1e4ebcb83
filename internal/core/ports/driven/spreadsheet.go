package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// SpreadsheetWriter renders an ordered data set as a binary spreadsheet.
// The core computes fill coordinates; the writer only applies them.
type SpreadsheetWriter interface {
	// Write encodes data to w.
	Write(ctx context.Context, w io.Writer, data *domain.SpreadsheetData) error

	// Extension returns the file extension produced, including the dot.
	Extension() string
}

package driven

import (
	"context"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// TextExtractor turns a raw document into plain text.
// Each extractor handles specific MIME types (e.g., PDF, plain text).
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract returns the concatenated text of all pages.
	// An unreadable document yields an empty string, not an error.
	// Errors are reserved for failures of the extractor itself.
	Extract(ctx context.Context, raw *domain.RawDocument) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
type ExtractorRegistry interface {
	// Extract runs the highest-priority extractor registered for the document's MIME type.
	// Returns domain.ErrUnsupportedType when no extractor matches.
	Extract(ctx context.Context, raw *domain.RawDocument) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}

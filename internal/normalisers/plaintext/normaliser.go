// Package plaintext passes pre-extracted letter text through to the engine.
package plaintext

import (
	"context"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Extract decodes the content as text. A byte order mark selects UTF-8 or
// UTF-16 and is removed; without one the content is read as UTF-8.
// Content that cannot be decoded yields empty text.
func (n *Normaliser) Extract(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw.Content)
	if err != nil {
		return "", nil
	}
	return string(out), nil
}

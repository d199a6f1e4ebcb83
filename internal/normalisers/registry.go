package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest-priority extractor
// registered for their MIME type.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.TextExtractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byMIME: make(map[string][]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor under each of its MIME types.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mime := range extractor.SupportedMIMETypes() {
		list := append(r.byMIME[mime], extractor)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byMIME[mime] = list
	}
}

// Extract runs the best extractor for the document.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}
	r.mu.RLock()
	list := r.byMIME[raw.MIMEType]
	r.mu.RUnlock()
	if len(list) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return list[0].Extract(ctx, raw)
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		out = append(out, mime)
	}
	sort.Strings(out)
	return out
}

package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
)

// Ensure GrammarStore implements the interface.
var _ driven.GrammarStore = (*GrammarStore)(nil)

// GrammarStore holds grammar definitions in memory.
type GrammarStore struct {
	mu   sync.RWMutex
	defs map[string]grammar.Definition
}

// NewGrammarStore creates a store holding the given definitions.
func NewGrammarStore(defs ...grammar.Definition) *GrammarStore {
	s := &GrammarStore{defs: make(map[string]grammar.Definition, len(defs))}
	for _, d := range defs {
		s.defs[d.ID] = d
	}
	return s
}

// Put adds or replaces a definition.
func (s *GrammarStore) Put(def grammar.Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[def.ID] = def
}

// List returns all definitions ordered by ID.
func (s *GrammarStore) List() ([]grammar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]grammar.Definition, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Load returns a definition by ID.
func (s *GrammarStore) Load(id string) (grammar.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.defs[id]
	if !ok {
		return grammar.Definition{}, fmt.Errorf("grammar %q: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

// Init writes nothing; the store has no directory.
func (s *GrammarStore) Init() ([]string, error) {
	return nil, nil
}

// Reload is a no-op.
func (s *GrammarStore) Reload() {}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService compiles grammar definitions into pipelines on demand.
type PipelineService struct {
	store driven.GrammarStore

	mu       sync.Mutex
	compiled map[string]*grammar.Grammar
}

// NewPipelineService creates a pipeline catalogue backed by a grammar store.
func NewPipelineService(store driven.GrammarStore) *PipelineService {
	return &PipelineService{
		store:    store,
		compiled: make(map[string]*grammar.Grammar),
	}
}

// List returns every pipeline whose grammar compiles, ordered by ID.
// Broken grammars are reported through the logger and left out.
func (s *PipelineService) List(_ context.Context) ([]domain.Pipeline, error) {
	defs, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("list grammars: %w", err)
	}

	pipelines := make([]domain.Pipeline, 0, len(defs))
	for _, def := range defs {
		g, err := s.compile(def)
		if err != nil {
			logger.Warn("skipping grammar %s: %v", def.ID, err)
			continue
		}
		pipelines = append(pipelines, g.Pipeline())
	}
	return pipelines, nil
}

// Get returns the pipeline for an ID.
func (s *PipelineService) Get(_ context.Context, id string) (domain.Pipeline, error) {
	g, err := s.Grammar(id)
	if err != nil {
		return domain.Pipeline{}, err
	}
	return g.Pipeline(), nil
}

// Definition returns the raw grammar definition for an ID.
func (s *PipelineService) Definition(_ context.Context, id string) (grammar.Definition, error) {
	def, err := s.store.Load(id)
	if err != nil {
		return grammar.Definition{}, fmt.Errorf("pipeline %s: %w", id, err)
	}
	return def, nil
}

// InitGrammars writes the built-in grammars to disk and drops the cache so
// the next lookup sees the files.
func (s *PipelineService) InitGrammars(_ context.Context) ([]string, error) {
	written, err := s.store.Init()
	if err != nil {
		return nil, fmt.Errorf("init grammars: %w", err)
	}
	s.Reload()
	return written, nil
}

// Grammar returns the compiled grammar for an ID, compiling it once.
func (s *PipelineService) Grammar(id string) (*grammar.Grammar, error) {
	s.mu.Lock()
	g, ok := s.compiled[id]
	s.mu.Unlock()
	if ok {
		return g, nil
	}

	def, err := s.store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", id, err)
	}
	return s.compile(def)
}

// Reload drops compiled grammars and the store's cache.
func (s *PipelineService) Reload() {
	s.mu.Lock()
	s.compiled = make(map[string]*grammar.Grammar)
	s.mu.Unlock()
	s.store.Reload()
}

func (s *PipelineService) compile(def grammar.Definition) (*grammar.Grammar, error) {
	g, err := grammar.Compile(def)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.compiled[def.ID] = g
	s.mu.Unlock()
	return g, nil
}

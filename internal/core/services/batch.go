package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchLoader = (*BatchService)(nil)

// BatchService loads reference tables and document batches from disk.
type BatchService struct {
	reader driven.ReferenceReader
	source driven.DocumentSource
}

// NewBatchService creates a batch loader.
func NewBatchService(reader driven.ReferenceReader, source driven.DocumentSource) *BatchService {
	return &BatchService{reader: reader, source: source}
}

// LoadReference opens and parses the reference table.
func (s *BatchService) LoadReference(ctx context.Context, path string) (*domain.ReferenceTable, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: reference path is required", domain.ErrInvalidInput)
	}
	if s.reader == nil {
		return nil, errors.New("reference reader not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	table, err := s.reader.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("reference %s: %d rows", path, table.Len())
	return table, nil
}

// LoadDocuments collects the batch. An empty result is not an error.
func (s *BatchService) LoadDocuments(ctx context.Context, paths []string) ([]domain.RawDocument, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no document paths", domain.ErrInvalidInput)
	}
	if s.source == nil {
		return nil, errors.New("document source not configured")
	}
	docs, err := s.source.Collect(ctx, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected %d documents from %d paths", len(docs), len(paths))
	return docs, nil
}

// Watch forwards to the document source.
func (s *BatchService) Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error) {
	if s.source == nil {
		return nil, errors.New("document source not configured")
	}
	return s.source.Watch(ctx, paths)
}

// Package filesystem collects grant letters from local files and directories.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// mimeTypes maps supported extensions to MIME types.
var mimeTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
}

// MIMEType returns the MIME type for a path, or "" if the extension is not supported.
func MIMEType(path string) string {
	return mimeTypes[strings.ToLower(filepath.Ext(path))]
}

// Source reads documents from the local filesystem.
type Source struct {
	mu       sync.Mutex
	watchers []*fsnotify.Watcher
}

// New creates a filesystem source.
func New() *Source {
	return &Source{}
}

// Collect expands paths into raw documents. Files keep their argument
// order; directories are walked in lexical order. Hidden entries and
// unsupported extensions are skipped.
func (s *Source) Collect(ctx context.Context, paths []string) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("document path: %w", err)
		}
		if !info.IsDir() {
			if doc, ok, err := readDocument(p); err != nil {
				return nil, err
			} else if ok {
				docs = append(docs, doc)
			} else {
				logger.Debug("ignoring unsupported file %s", p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if path != p && isHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			doc, ok, err := readDocument(path)
			if err != nil {
				return err
			}
			if ok {
				docs = append(docs, doc)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	return docs, nil
}

// readDocument loads one file. ok is false for unsupported extensions.
func readDocument(path string) (domain.RawDocument, bool, error) {
	mime := MIMEType(path)
	if mime == "" {
		return domain.RawDocument{}, false, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, false, fmt.Errorf("read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return domain.RawDocument{
		Name:     filepath.Base(path),
		URI:      abs,
		MIMEType: mime,
		Content:  content,
		Metadata: map[string]any{"size": len(content)},
	}, true, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Watch reports changes to supported files under paths until ctx is done.
// Directories are watched without recursion; a file argument is watched
// through its parent directory and only its own events are reported.
func (s *Source) Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		dir := abs
		if !info.IsDir() {
			files[abs] = true
			dir = filepath.Dir(abs)
		} else {
			dirs[abs] = true
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	s.mu.Lock()
	s.watchers = append(s.watchers, watcher)
	s.mu.Unlock()

	changes := make(chan domain.RawDocumentChange)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !dirs[filepath.Dir(event.Name)] && !files[event.Name] {
					continue
				}
				change := handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()
	return changes, nil
}

// handleFsEvent converts an fsnotify event into a change, or nil when the
// event is irrelevant.
func handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if isHidden(event.Name) || MIMEType(event.Name) == "" {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{Type: domain.ChangeDeleted, URI: event.Name}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.RawDocumentChange{Type: domain.ChangeCreated, URI: event.Name}
	case event.Has(fsnotify.Write):
		return &domain.RawDocumentChange{Type: domain.ChangeUpdated, URI: event.Name}
	default:
		return nil
	}
}

// Close stops all watchers.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, w := range s.watchers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.watchers = nil
	return firstErr
}

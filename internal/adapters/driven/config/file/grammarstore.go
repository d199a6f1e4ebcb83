package file

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/grammar"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure GrammarStore implements the interface.
var _ driven.GrammarStore = (*GrammarStore)(nil)

//go:embed grammars/*.toml
var builtinGrammars embed.FS

const grammarExt = ".toml"

// GrammarStore loads pipeline grammars from user-editable TOML files.
// Built-in grammars are embedded in the binary; a file in the grammar
// directory with the same ID replaces the built-in, and files with new
// IDs add pipelines.
//
// Nothing is read until the first List or Load call.
type GrammarStore struct {
	dir string

	defaultsOnce sync.Once
	defaults     map[string][]byte
	defaultsErr  error

	mu    sync.RWMutex
	cache map[string]grammar.Definition
}

// NewGrammarStore creates a grammar store rooted at dir.
// If dir is empty, defaults to <config dir>/grammars.
func NewGrammarStore(dir string) (*GrammarStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get config directory: %w", err)
		}
		dir = filepath.Join(base, "grammars")
	}
	return &GrammarStore{dir: dir}, nil
}

// Dir returns the grammar directory path.
func (s *GrammarStore) Dir() string {
	return s.dir
}

// List returns every definition ordered by ID.
func (s *GrammarStore) List() ([]grammar.Definition, error) {
	defs, err := s.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]grammar.Definition, len(ids))
	for i, id := range ids {
		out[i] = defs[id]
	}
	return out, nil
}

// Load returns the definition for id.
func (s *GrammarStore) Load(id string) (grammar.Definition, error) {
	defs, err := s.load()
	if err != nil {
		return grammar.Definition{}, err
	}
	def, ok := defs[id]
	if !ok {
		return grammar.Definition{}, fmt.Errorf("pipeline %q: %w", id, domain.ErrNotFound)
	}
	return def, nil
}

// Init writes the built-in grammars into the grammar directory.
// Existing files are left untouched so user edits survive.
func (s *GrammarStore) Init() ([]string, error) {
	defaults, err := s.builtins()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("create grammar directory: %w", err)
	}

	var written []string
	for _, id := range slices.Sorted(maps.Keys(defaults)) {
		target := filepath.Join(s.dir, id+grammarExt)
		if _, err := os.Stat(target); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return written, err
		}
		if err := os.WriteFile(target, defaults[id], 0600); err != nil {
			return written, fmt.Errorf("write grammar %q: %w", id, err)
		}
		written = append(written, target)
	}

	s.Reload()
	return written, nil
}

// Reload clears the cache, forcing fresh loads from disk.
func (s *GrammarStore) Reload() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// load returns the merged definitions, reading them on first use.
func (s *GrammarStore) load() (map[string]grammar.Definition, error) {
	s.mu.RLock()
	if s.cache != nil {
		defer s.mu.RUnlock()
		return s.cache, nil
	}
	s.mu.RUnlock()

	defaults, err := s.builtins()
	if err != nil {
		return nil, err
	}

	defs := make(map[string]grammar.Definition, len(defaults))
	for id, data := range defaults {
		def, err := decodeDefinition(data, id)
		if err != nil {
			return nil, fmt.Errorf("built-in grammar %q: %w", id, err)
		}
		defs[def.ID] = def
	}

	for id, def := range s.readDir() {
		if _, ok := defs[id]; ok {
			logger.Debug("grammar %s overridden by %s", id, s.dir)
		}
		defs[id] = def
	}

	s.mu.Lock()
	if s.cache == nil {
		s.cache = defs
	} else {
		defs = s.cache
	}
	s.mu.Unlock()
	return defs, nil
}

// readDir parses the user grammar files. Unreadable or malformed files are
// logged and ignored so the built-in definition stays in effect.
func (s *GrammarStore) readDir() map[string]grammar.Definition {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("read grammar directory %s: %v", s.dir, err)
		}
		return nil
	}

	defs := make(map[string]grammar.Definition)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != grammarExt {
			continue
		}
		full := filepath.Join(s.dir, name)
		data, err := os.ReadFile(full)
		if err != nil {
			logger.Warn("grammar override ignored: %s: %v", full, err)
			continue
		}
		def, err := decodeDefinition(data, strings.TrimSuffix(name, grammarExt))
		if err != nil {
			logger.Warn("grammar override ignored: %s: %v", full, err)
			continue
		}
		defs[def.ID] = def
	}
	return defs
}

// builtins returns the raw embedded grammar files keyed by ID.
func (s *GrammarStore) builtins() (map[string][]byte, error) {
	s.defaultsOnce.Do(func() {
		entries, err := builtinGrammars.ReadDir("grammars")
		if err != nil {
			s.defaultsErr = err
			return
		}
		s.defaults = make(map[string][]byte, len(entries))
		for _, entry := range entries {
			data, err := builtinGrammars.ReadFile(path.Join("grammars", entry.Name()))
			if err != nil {
				s.defaultsErr = err
				return
			}
			s.defaults[strings.TrimSuffix(entry.Name(), grammarExt)] = data
		}
	})
	return s.defaults, s.defaultsErr
}

// decodeDefinition parses a TOML grammar. Unknown keys are rejected so a
// misspelt key does not silently drop a field rule. The file name supplies
// the ID when the file does not declare one.
func decodeDefinition(data []byte, fallbackID string) (grammar.Definition, error) {
	var def grammar.Definition
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return def, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strict.String())
		}
		return def, err
	}
	if def.ID == "" {
		def.ID = fallbackID
	}
	return def, nil
}

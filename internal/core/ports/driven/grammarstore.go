package driven

import "github.com/custodia-labs/grantcheck/internal/core/grammar"

// GrammarStore provides access to document grammar definitions.
// Implementations may embed defaults in the binary and let users
// override them with files on disk.
type GrammarStore interface {
	// List returns every known definition, ordered by ID.
	List() ([]grammar.Definition, error)

	// Load returns the definition for a pipeline ID.
	// Returns domain.ErrNotFound if the ID is unknown.
	Load(id string) (grammar.Definition, error)

	// Init writes the built-in definitions to the user grammar directory,
	// leaving existing files untouched. Returns the paths written.
	Init() ([]string, error)

	// Reload clears any cached definitions, forcing fresh loads on next access.
	Reload()
}

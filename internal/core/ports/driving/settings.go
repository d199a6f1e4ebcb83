package driving

import "github.com/custodia-labs/grantcheck/internal/core/domain"

// SettingsService manages application settings and the access gate.
type SettingsService interface {
	// Get returns the resolved settings with defaults applied.
	Get() domain.Settings

	// AccessRequired reports whether an access key is configured.
	AccessRequired() bool

	// VerifyAccessKey checks a key against the configured digest.
	// Returns domain.ErrAccessDenied on mismatch.
	VerifyAccessKey(key string) error

	// SetAccessKey stores the digest of a new key. An empty key disables the gate.
	SetAccessKey(key string) error
}

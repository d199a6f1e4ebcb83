package driven

// ConfigStore provides access to application configuration.
// Keys are dot-separated paths such as "export.fill_color".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent or not a string.
	GetString(key string) string

	// GetBool retrieves a boolean value, or false when absent or not a boolean.
	GetBool(key string) bool

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

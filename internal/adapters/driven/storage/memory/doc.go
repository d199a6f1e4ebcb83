// Package memory provides in-memory implementations of the configuration
// and grammar stores. They back tests and embedded uses where nothing
// should touch the user's home directory.
package memory

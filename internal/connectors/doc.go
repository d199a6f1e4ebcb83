// Package connectors provides document sources for reconciliation runs.
// A source turns the paths a user names into raw documents and can watch
// those paths for changes.
package connectors

// Package logger provides verbose logging for grantcheck.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow a reconciliation run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}

// Skip records why a document contributed nothing to a run.
// Each reason is logged verbatim so causes stay distinguishable.
func Skip(runID, document, reason, detail string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if detail == "" {
		fmt.Fprintf(output, "[SKIP] run=%s doc=%s reason=%s\n", shortID(runID), document, reason)
		return
	}
	fmt.Fprintf(output, "[SKIP] run=%s doc=%s reason=%s detail=%q\n", shortID(runID), document, reason, detail)
}

// shortID trims a run ID to its first block for readable log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Package mcp provides an MCP (Model Context Protocol) server adapter for grantcheck.
// It lets AI assistants run reconciliations and inspect pipelines.
package mcp

import "errors"

// ErrMissingReconcileService is returned when the reconcile service is not provided.
var ErrMissingReconcileService = errors.New("mcp: reconcile service is required")

// ErrMissingBatchLoader is returned when the batch loader is not provided.
var ErrMissingBatchLoader = errors.New("mcp: batch loader is required")

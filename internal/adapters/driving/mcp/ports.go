package mcp

import (
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Reconcile runs reconciliations and exports reports.
	Reconcile driving.ReconcileService

	// Loader reads reference tables and documents from paths.
	Loader driving.BatchLoader

	// Pipelines lists pipelines. Optional.
	Pipelines driving.PipelineService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Reconcile == nil {
		return ErrMissingReconcileService
	}
	if p.Loader == nil {
		return ErrMissingBatchLoader
	}
	return nil
}

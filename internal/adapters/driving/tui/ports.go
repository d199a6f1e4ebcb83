// Package tui provides an interactive terminal viewer for reconciliation reports.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Reconcile exports the report being viewed.
	Reconcile driving.ReconcileService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(reconcile driving.ReconcileService) *Ports {
	return &Ports{Reconcile: reconcile}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Reconcile == nil {
		return ErrMissingReconcileService
	}
	return nil
}

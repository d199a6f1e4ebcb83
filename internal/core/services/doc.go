// Package services implements the driving port interfaces.
// Services contain the core business logic (the reconciliation engine
// and report renderer) and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO.
package services

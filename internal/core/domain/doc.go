// Package domain defines the core business entities for grantcheck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Pipeline: a (category x language) configuration with its Schema
//   - ReferenceTable: the authoritative tabular record of grants
//   - RawDocument / DocumentRecord: a source document before and after text extraction
//   - ReconciliationResult: per-row outcomes for one batch
//   - Report: the display table and spreadsheet data derived from a result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

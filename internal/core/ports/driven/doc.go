// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Turns raw document bytes into plain text
//   - ExtractorRegistry: Selects the appropriate text extractor
//   - ReferenceReader: Parses the delimited reference table
//   - GrammarStore: Supplies document grammar definitions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - SpreadsheetWriter: Writes the highlighted export. Without it, export is unavailable.
//   - DocumentSource: Collects and watches document files for the CLI.
//
// # Import Rules
//
//   - Can Import: domain and grammar packages only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven

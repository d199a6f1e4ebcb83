// Package normalisers turns raw document bytes into plain text for the
// reconciliation engine. Each normaliser handles specific MIME types and
// implements driven.TextExtractor; Registry picks one per document.
//
// Normalisers are registered with the Registry at startup.
package normalisers

// Package values normalises and compares the scalar values found in
// reference tables and extracted from documents.
//
// Comparison is decimal, not binary floating point: both sides are parsed
// with apd and rounded half-up to two places before an exact comparison.
// Values that do not parse as finite decimals fall back to an exact string
// comparison of their normalised forms.
package values

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown pipeline or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSchemaMismatch indicates the reference table lacks a required column.
	// It is the only error that aborts a whole batch.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrAccessDenied indicates the access key was missing or wrong.
	ErrAccessDenied = errors.New("access denied")

	// Extraction Errors.
	// These never leave the document boundary; the engine records them as skip reasons.

	// ErrEmptyText indicates text extraction produced no usable text.
	ErrEmptyText = errors.New("document text is empty")

	// ErrNoIdentity indicates no anchor line (or no line after it) was found.
	ErrNoIdentity = errors.New("identity not found in document")

	// ErrPatternMismatch indicates at least one field pattern did not match.
	ErrPatternMismatch = errors.New("document does not match expected layout")

	// ErrNumericFormat indicates a fixed-decimal field captured a non-numeric value.
	ErrNumericFormat = errors.New("numeric format failure")

	// Export Errors.

	// ErrNothingToExport indicates no rows were processed, so there is nothing to write.
	// This is a terminal state, not a failure of the run.
	ErrNothingToExport = errors.New("nothing to export")
)

// SchemaMismatchError reports which required columns are absent from a reference table.
type SchemaMismatchError struct {
	Pipeline string
	Required []string
	Missing  []string
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("reference table for %s must contain the columns [%s]; missing [%s]",
		e.Pipeline, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

// Is implements errors.Is support.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NumericFormatError reports a fixed-decimal field whose capture is not a number.
type NumericFormatError struct {
	Field string
	Raw   string
}

// Error implements the error interface.
func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("field %s: cannot format %q as a decimal", e.Field, e.Raw)
}

// Is implements errors.Is support.
func (e *NumericFormatError) Is(target error) bool {
	return target == ErrNumericFormat
}

// GrammarError reports an invalid grammar definition.
type GrammarError struct {
	Pipeline string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("grammar %s, field %s: %v", e.Pipeline, e.Field, e.Err)
	}
	return fmt.Sprintf("grammar %s: %v", e.Pipeline, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *GrammarError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *GrammarError) Is(target error) bool {
	return target == ErrInvalidInput
}

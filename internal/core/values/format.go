package values

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// FormatFixed normalises raw and renders it with exactly two decimal places.
// A value that is not a finite decimal yields a *domain.NumericFormatError.
func FormatFixed(field, raw string) (string, error) {
	d, ok := roundedDecimal(Normalize(raw), apd.RoundHalfEven)
	if !ok {
		return "", &domain.NumericFormatError{Field: field, Raw: raw}
	}
	return d.Text('f'), nil
}

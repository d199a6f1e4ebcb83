package values

import (
	"github.com/cockroachdb/apd/v3"
)

// places is the number of decimal places both sides are rounded to.
const places = 2

// Equal reports whether an extracted value matches a reference value.
//
// Both inputs are normalised. If both parse as finite decimals they are
// rounded half-up to two places and compared exactly; otherwise the
// normalised strings must be identical.
func Equal(extracted, reference string) bool {
	a, b := Normalize(extracted), Normalize(reference)

	ra, okA := roundedDecimal(a, apd.RoundHalfUp)
	rb, okB := roundedDecimal(b, apd.RoundHalfUp)
	if okA && okB {
		return ra.Cmp(rb) == 0
	}
	return a == b
}

// IsNumeric reports whether a normalised value parses as a finite decimal.
func IsNumeric(raw string) bool {
	_, ok := parseDecimal(Normalize(raw))
	return ok
}

// parseDecimal parses s as a finite decimal.
func parseDecimal(s string) (*apd.Decimal, bool) {
	if s == "" {
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return nil, false
	}
	return d, true
}

// roundedDecimal parses s and quantizes it to two places with the given rounding.
func roundedDecimal(s string, rounding apd.Rounder) (*apd.Decimal, bool) {
	d, ok := parseDecimal(s)
	if !ok {
		return nil, false
	}
	ctx := apd.BaseContext.WithPrecision(1000)
	ctx.Rounding = rounding
	var out apd.Decimal
	if _, err := ctx.Quantize(&out, d, -places); err != nil {
		return nil, false
	}
	return &out, true
}

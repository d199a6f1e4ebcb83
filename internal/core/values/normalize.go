package values

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stripper removes grouping and formatting characters.
var stripper = strings.NewReplacer(
	",", "",
	"\u00a0", "",
	"\u200b", "",
	" ", "",
	"%", "",
)

// Normalize strips thousands separators, non-breaking and zero-width spaces,
// literal spaces and percent signs, then trims surrounding whitespace.
// It never fails and is idempotent.
func Normalize(raw string) string {
	return strings.TrimSpace(stripper.Replace(raw))
}

// NormalizeValue converts any scalar to its string form and normalises it.
func NormalizeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Normalize(t)
	default:
		return Normalize(fmt.Sprint(t))
	}
}

// IdentityKey upper-cases and trims a display name so it can be matched
// against the identity column. Upper-casing is Unicode-aware.
func IdentityKey(name string) string {
	upper := cases.Upper(language.Und).String(strings.TrimSpace(name))
	return strings.TrimSpace(upper)
}

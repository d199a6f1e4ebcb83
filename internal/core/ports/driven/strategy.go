package driven

// IdentityExtractor locates the employee name in document text.
type IdentityExtractor interface {
	// ExtractIdentity returns the display name and true, or false when no
	// name can be located.
	ExtractIdentity(text string) (string, bool)
}

// FieldExtractor pulls the comparison fields out of document text.
type FieldExtractor interface {
	// ExtractFields returns one value per comparison column, in schema order.
	// On failure it returns nil and an error wrapping domain.ErrPatternMismatch
	// or domain.ErrNumericFormat.
	ExtractFields(text string) ([]string, error)
}

// IdentityFunc adapts a plain function to IdentityExtractor.
type IdentityFunc func(text string) (string, bool)

// ExtractIdentity calls f(text).
func (f IdentityFunc) ExtractIdentity(text string) (string, bool) { return f(text) }

// FieldFunc adapts a plain function to FieldExtractor.
type FieldFunc func(text string) ([]string, error)

// ExtractFields calls f(text).
func (f FieldFunc) ExtractFields(text string) ([]string, error) { return f(text) }

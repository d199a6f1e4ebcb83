package domain

// RawDocument represents the opaque bytes of one source document.
// It is the document source's output before text extraction.
type RawDocument struct {
	// Name is the display name (usually the file name) used as provenance.
	Name string

	// URI is the original location.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// DocumentRecord is one document's extracted plain text plus its display name.
// It exists only while that document is being processed.
type DocumentRecord struct {
	Name string
	Text string
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns a short label for the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RawDocumentChange represents a change event from a document source.
type RawDocumentChange struct {
	Type ChangeType
	URI  string
}

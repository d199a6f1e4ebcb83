// Package messages defines Bubbletea message types for the results viewer.
package messages

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewResults shows processed reference rows.
	ViewResults ViewType = iota
	// ViewSkipped lists documents that matched no row.
	ViewSkipped
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewSkipped:
		return "skipped"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// RowSelected is sent when the notes of a processed row are opened.
type RowSelected struct {
	Index int
}

// ExportRequested asks the app to write the spreadsheet.
type ExportRequested struct{}

// ExportCompleted reports the outcome of an export.
type ExportCompleted struct {
	Path string
	Err  error
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

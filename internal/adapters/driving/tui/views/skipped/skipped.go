// Package skipped lists documents that did not contribute to the report.
package skipped

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// View shows skipped documents with their reasons.
type View struct {
	styles   *styles.Styles
	outcomes []domain.MatchOutcome
	selected int
	width    int
	height   int
}

// NewView creates a skipped-documents view.
func NewView(s *styles.Styles, outcomes []domain.MatchOutcome) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, outcomes: outcomes}
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.outcomes)-1 {
				v.selected++
			}
		}
	}
	return v, nil
}

// View renders the skipped documents.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Skipped documents (%d)", len(v.outcomes))))
	b.WriteString("\n\n")

	if len(v.outcomes) == 0 {
		b.WriteString(v.styles.Muted.Render("Every document matched a reference row."))
		b.WriteString("\n")
		return b.String()
	}

	for i := range v.outcomes {
		b.WriteString(v.renderOutcome(i, &v.outcomes[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// renderOutcome renders one line: > document [reason] identity: detail
func (v *View) renderOutcome(index int, o *domain.MatchOutcome) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}
	reason := fmt.Sprintf("[%s]", o.Skip)

	text := o.Document
	if o.Identity != "" {
		text += " (" + o.Identity + ")"
	}
	if o.Detail != "" {
		text += ": " + o.Detail
	}
	if maxLen := v.width - len(reason) - 6; maxLen > 10 && len([]rune(text)) > maxLen {
		text = string([]rune(text)[:maxLen-3]) + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s %s", indicator, reason, text))
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.Warning.Render(reason+" ") +
		v.styles.Normal.Render(text)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SelectedIndex returns the highlighted entry.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Package status provides the status bar for the results viewer.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateExporting State = "exporting"
	StateExported  State = "exported"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays the run summary, transient messages and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	summary domain.Summary
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateExporting:
		return s.styles.Muted.Render("Exporting...")
	case StateExported:
		return s.styles.Success.Render(fmt.Sprintf("Exported %s", s.message))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady:
	}
	return s.renderSummary()
}

func (s *Bar) renderSummary() string {
	if s.summary.Documents == 0 {
		return s.styles.Muted.Render("No documents")
	}
	text := fmt.Sprintf("%d documents, %d matched, %d skipped",
		s.summary.Documents, s.summary.Matched, s.summary.Skipped)
	if s.summary.Mismatched > 0 {
		return s.styles.Normal.Render(text+", ") +
			s.styles.Fail.Render(fmt.Sprintf("%d rows with mismatches", s.summary.Mismatched))
	}
	return s.styles.Normal.Render(text)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSummary sets the run summary.
func (s *Bar) SetSummary(summary domain.Summary) {
	s.summary = summary
}

// Summary returns the run summary.
func (s *Bar) Summary() domain.Summary {
	return s.summary
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its ready state, keeping the summary.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}

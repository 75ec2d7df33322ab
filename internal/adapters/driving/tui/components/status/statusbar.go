// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateTyping    State = "typing"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// StateFor maps a search snapshot to the status bar state.
func StateFor(snap domain.SearchSnapshot) State {
	switch {
	case snap.Err != nil:
		return StateError
	case snap.Phase == domain.PhaseRequesting || snap.Phase == domain.PhaseRefining:
		return StateSearching
	case snap.Phase == domain.PhaseTyping:
		return StateTyping
	case snap.Phase == domain.PhaseSettled && snap.Filters.Query != "":
		return StateResults
	default:
		return StateReady
	}
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	notice      string
	shown       int
	total       int
	queryTimeMs int64
	resultsMode bool
	width       int
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

// SetSnapshot updates the bar from a search snapshot.
func (s *Bar) SetSnapshot(snap domain.SearchSnapshot) {
	s.state = StateFor(snap)
	s.message = snap.ErrorMessage()
	s.shown = len(snap.Documents)
	s.total = snap.TotalCount
	s.queryTimeMs = snap.QueryTimeMs
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	frame := s.styles.StatusBar.GetHorizontalFrameSize()
	padding := max(s.width-frame-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	if s.notice != "" {
		return s.styles.Normal.Render(s.notice)
	}

	switch s.state {
	case StateTyping:
		return s.styles.Muted.Render("Typing...")
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(s.message)
		}
		return s.styles.Error.Render("Error")
	case StateResults:
		return s.styles.Normal.Render(s.summary())
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

// summary describes the result counts. The total is the server's count and
// is not reduced by client-side filters, so both numbers are shown when they
// differ.
func (s *Bar) summary() string {
	var text string
	switch {
	case s.total == 0 && s.shown == 0:
		text = "No results"
	case s.shown == s.total:
		text = fmt.Sprintf("%s results", humanize.Comma(int64(s.total)))
	default:
		text = fmt.Sprintf("%d shown of %s results", s.shown, humanize.Comma(int64(s.total)))
	}
	return fmt.Sprintf("%s (%dms)", text, s.queryTimeMs)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.resultsMode {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetResultsMode selects the result-navigation key hints.
func (s *Bar) SetResultsMode(on bool) {
	s.resultsMode = on
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current error message.
func (s *Bar) Message() string {
	return s.message
}

// SetNotice shows a transient message, such as an action outcome, in place
// of the state. An empty notice restores the state display.
func (s *Bar) SetNotice(notice string) {
	s.notice = notice
}

// Notice returns the current notice.
func (s *Bar) Notice() string {
	return s.notice
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

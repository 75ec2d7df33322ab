// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// SnapshotReceived carries a state snapshot published by the search session.
type SnapshotReceived struct {
	Snapshot domain.SearchSnapshot
}

// SessionClosed signals that the search session stopped publishing.
type SessionClosed struct{}

// FacetsLoaded carries the available filter values.
type FacetsLoaded struct {
	Facets *domain.Facets
	Err    error
}

// ActionCompleted reports the outcome of a document action.
type ActionCompleted struct {
	// Message is the status line text on success.
	Message string
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

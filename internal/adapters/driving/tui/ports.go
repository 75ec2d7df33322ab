// Package tui provides an interactive terminal user interface for docsearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the interactive search orchestrator. It must be started
	// before the program runs.
	Session driving.SearchSession

	// Search provides facets for the filter hints.
	Search driving.SearchService

	// Actions opens and downloads result documents.
	Actions driving.DocumentActionService

	// DownloadDir is where downloaded documents are saved.
	DownloadDir string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSearchSession
	}
	return nil
}

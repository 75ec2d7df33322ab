package driving

import (
	"context"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// SearchService runs a single search cycle for one-shot surfaces (CLI, MCP).
type SearchService interface {
	// Search builds a request from filters, executes it and refines the page.
	// An empty query returns an empty outcome without contacting the server.
	Search(ctx context.Context, filters domain.FilterState) (*domain.SearchOutcome, error)

	// Facets returns the available filter values with counts.
	Facets(ctx context.Context) (*domain.Facets, error)
}

// SearchSession is the interactive search orchestrator. Every setter applies
// its mutation on the session's event loop before returning.
type SearchSession interface {
	// Start mounts the session: the query is initialised from the location
	// and the event loop begins. It returns immediately.
	Start(ctx context.Context) error

	// Close stops the event loop and pending timers.
	Close()

	SetQuery(query string) error
	SetTags(tags []string) error
	SetMimeTypes(mimeTypes []string) error
	SetAgeRange(r domain.DayRange) error
	SetSizeRange(r domain.SizeRange) error
	SetOCRPresence(o domain.OCRPresence) error
	SetResultLimit(limit int) error
	SetSearchMode(mode domain.SearchMode) error
	SetEnhanced(enhanced bool) error

	// LocationChanged re-reads the location after external navigation.
	LocationChanged() error

	// ApplySettings updates timing and request defaults.
	ApplySettings(settings domain.AppSettings) error

	// Snapshot returns the current state.
	Snapshot() (domain.SearchSnapshot, error)

	// Updates delivers published snapshots. Intermediate snapshots are
	// dropped when the reader falls behind; the latest is always kept.
	Updates() <-chan domain.SearchSnapshot
}

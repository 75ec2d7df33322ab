package services

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs single, non-interactive search cycles. It is used by
// the CLI and MCP adapters; the TUI uses a SearchSession instead.
type SearchService struct {
	client   driven.SearchClient
	defaults domain.SearchSettings
	clock    clock.Clock
}

// NewSearchService creates a new search service.
func NewSearchService(client driven.SearchClient, defaults domain.SearchSettings) *SearchService {
	return &SearchService{
		client:   client,
		defaults: defaults,
		clock:    clock.New(),
	}
}

// WithClock sets the clock used to compute document ages.
func (s *SearchService) WithClock(clk clock.Clock) *SearchService {
	s.clock = clk
	return s
}

// Search sends the server-side dimensions of filters and narrows the
// response with the client-side ones. An empty query returns an empty
// outcome without contacting the server.
func (s *SearchService) Search(ctx context.Context, filters domain.FilterState) (*domain.SearchOutcome, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", filters.Query)

	if err := filters.Validate(); err != nil {
		return nil, err
	}

	req, ok, err := BuildRequest(filters, s.defaults)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Debug("Empty query, returning no results")
		return &domain.SearchOutcome{}, nil
	}
	logger.Debug("Limit: %d, mode: %s, enhanced: %t, tags: %v, mime types: %v",
		req.Limit, req.SearchMode, req.Enhanced, req.Tags, req.MimeTypes)

	page, err := s.client.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if page == nil {
		return nil, domain.ErrMalformedResponse
	}

	docs := RefineWith(page.Documents, filters, s.clock.Now())
	logger.Info("Search returned %d documents (%d after refinement, total %d) in %dms",
		len(page.Documents), len(docs), page.TotalCount, page.QueryTimeMs)

	return &domain.SearchOutcome{
		Request:           &req,
		Documents:         docs,
		TotalCount:        page.TotalCount,
		QueryTimeMs:       page.QueryTimeMs,
		ServerSuggestions: page.ServerSuggestions,
	}, nil
}

// Facets lists the available tag and MIME type filter values.
func (s *SearchService) Facets(ctx context.Context) (*domain.Facets, error) {
	facets, err := s.client.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("facets: %w", err)
	}
	return facets, nil
}

package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// BuildRequest maps the filter state to a remote search request.
//
// It returns ok=false when the trimmed query is empty: no request is issued
// and the caller clears its results. Tags and MIME types are included only
// when non-empty. Limit, snippet flags and search mode are always set.
// Age, size and OCR filters are never sent; they are applied by Refine once
// the response arrives.
func BuildRequest(filters domain.FilterState, defaults domain.SearchSettings) (req domain.SearchRequest, ok bool, err error) {
	query := strings.TrimSpace(filters.Query)
	if query == "" {
		return domain.SearchRequest{}, false, nil
	}
	if n := len(query); n > domain.MaxQueryLength {
		return domain.SearchRequest{}, false,
			fmt.Errorf("%w: query is %d bytes (maximum %d)", domain.ErrInvalidInput, n, domain.MaxQueryLength)
	}

	limit := filters.ResultLimit
	if limit <= 0 {
		limit = defaults.Limit
	}
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}
	if limit > domain.MaxResultLimit {
		limit = domain.MaxResultLimit
	}

	mode := filters.SearchMode
	if !mode.IsValid() {
		mode = defaults.Mode
	}
	if !mode.IsValid() {
		mode = domain.SearchModeSimple
	}

	snippetLength := defaults.SnippetLength
	if snippetLength <= 0 {
		snippetLength = domain.DefaultSnippetLength
	}

	return domain.SearchRequest{
		Query:           query,
		Tags:            domain.NormalizeSet(filters.Tags),
		MimeTypes:       domain.NormalizeSet(filters.MimeTypes),
		Limit:           limit,
		Offset:          0,
		IncludeSnippets: defaults.IncludeSnippets,
		SnippetLength:   snippetLength,
		SearchMode:      mode,
		Enhanced:        filters.UseEnhancedBackend,
	}, true, nil
}

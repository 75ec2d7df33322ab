package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query      string   `json:"query" jsonschema:"the search query to find documents"`
	Tags       []string `json:"tags,omitempty" jsonschema:"only documents carrying any of these tags"`
	MimeTypes  []string `json:"mime_types,omitempty" jsonschema:"only documents of these MIME types"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 25)"`
	Mode       string   `json:"mode,omitempty" jsonschema:"simple, phrase, fuzzy or boolean (default simple)"`
	Enhanced   bool     `json:"enhanced,omitempty" jsonschema:"use the enhanced search backend"`
	OCR        string   `json:"ocr,omitempty" jsonschema:"all, present or absent (default all)"`
	MinAgeDays int      `json:"min_age_days,omitempty" jsonschema:"only documents at least this many days old"`
	MaxAgeDays int      `json:"max_age_days,omitempty" jsonschema:"only documents at most this many days old"`
	MinSizeMB  float64  `json:"min_size_mb,omitempty" jsonschema:"only documents of at least this size in MB"`
	MaxSizeMB  float64  `json:"max_size_mb,omitempty" jsonschema:"only documents of at most this size in MB"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results     []DocumentOutput `json:"results"`
	Count       int              `json:"count"`
	TotalCount  int              `json:"total_count"`
	QueryTimeMs int64            `json:"query_time_ms"`
	Suggestions []string         `json:"suggestions,omitempty"`
}

// DocumentOutput represents a single matched document.
type DocumentOutput struct {
	DocumentID string   `json:"document_id"`
	Filename   string   `json:"filename"`
	MimeType   string   `json:"mime_type"`
	SizeBytes  int64    `json:"size_bytes"`
	CreatedAt  string   `json:"created_at,omitempty"`
	HasOCRText bool     `json:"has_ocr_text"`
	Tags       []string `json:"tags,omitempty"`
	Snippets   []string `json:"snippets,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// FacetsInput is the input schema for the search_facets tool.
type FacetsInput struct{}

// FacetsOutput is the output schema for the search_facets tool.
type FacetsOutput struct {
	MimeTypes []FacetOutput `json:"mime_types"`
	Tags      []FacetOutput `json:"tags"`
}

// FacetOutput is one facet value with its document count.
type FacetOutput struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: toolSearchDocuments,
		Description: "Search documents on the configured server. total_count is the server's " +
			"count and is not reduced by the age, size and OCR filters.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchFacets,
		Description: "List the available MIME types and tags with document counts",
	}, s.handleFacets)
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filters, err := input.filters()
	if err != nil {
		return nil, SearchOutput{}, err
	}

	outcome, err := s.ports.Search.Search(ctx, filters)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:     make([]DocumentOutput, len(outcome.Documents)),
		Count:       len(outcome.Documents),
		TotalCount:  outcome.TotalCount,
		QueryTimeMs: outcome.QueryTimeMs,
		Suggestions: outcome.ServerSuggestions,
	}

	for i := range outcome.Documents {
		output.Results[i] = s.documentOutput(outcome.Documents[i])
	}

	return nil, output, nil
}

// handleFacets handles the search_facets tool invocation.
func (s *Server) handleFacets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ FacetsInput,
) (*mcp.CallToolResult, FacetsOutput, error) {
	facets, err := s.ports.Search.Facets(ctx)
	if err != nil {
		return nil, FacetsOutput{}, err
	}

	return nil, FacetsOutput{
		MimeTypes: facetOutputs(facets.MimeTypes),
		Tags:      facetOutputs(facets.Tags),
	}, nil
}

// filters converts tool input into a filter state. Zero values keep the
// defaults, which apply no filtering.
func (in SearchInput) filters() (domain.FilterState, error) {
	f := domain.DefaultFilterState()
	f.Query = in.Query
	f.Tags = domain.NormalizeSet(in.Tags)
	f.MimeTypes = domain.NormalizeSet(in.MimeTypes)
	f.UseEnhancedBackend = in.Enhanced

	if in.Limit > 0 {
		f.ResultLimit = in.Limit
	}
	if in.Mode != "" {
		f.SearchMode = domain.SearchMode(in.Mode)
	}
	if in.OCR != "" {
		f.OCRPresence = domain.OCRPresence(in.OCR)
	}
	if in.MinAgeDays != 0 || in.MaxAgeDays != 0 {
		f.AgeRangeDays = domain.DayRange{Min: in.MinAgeDays, Max: in.MaxAgeDays}
		if in.MaxAgeDays == 0 {
			f.AgeRangeDays.Max = domain.DefaultMaxAgeDays
		}
	}
	if in.MinSizeMB != 0 || in.MaxSizeMB != 0 {
		f.SizeRangeMB = domain.SizeRange{Min: in.MinSizeMB, Max: in.MaxSizeMB}
		if in.MaxSizeMB == 0 {
			f.SizeRangeMB.Max = domain.DefaultMaxSizeMB
		}
	}

	if err := f.Validate(); err != nil {
		return domain.FilterState{}, fmt.Errorf("search_documents: %w", err)
	}
	return f, nil
}

func (s *Server) documentOutput(doc domain.DocumentSummary) DocumentOutput {
	out := DocumentOutput{
		DocumentID: doc.ID,
		Filename:   doc.DisplayName(),
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		HasOCRText: doc.HasOCRText,
		Tags:       doc.Tags,
	}
	if !doc.CreatedAt.IsZero() {
		out.CreatedAt = doc.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, snippet := range doc.Snippets {
		out.Snippets = append(out.Snippets, snippet.Text)
	}
	if s.ports.Actions != nil {
		if link, err := s.ports.Actions.DocumentURL(doc.ID); err == nil {
			out.URL = link
		}
	}
	return out
}

func facetOutputs(items []domain.FacetItem) []FacetOutput {
	out := make([]FacetOutput, len(items))
	for i, item := range items {
		out[i] = FacetOutput{Value: item.Value, Count: item.Count}
	}
	return out
}

package readur

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// searchParams is the query string of /api/search.
type searchParams struct {
	Query           string   `url:"query"`
	Tags            []string `url:"tags,comma,omitempty"`
	MimeTypes       []string `url:"mime_types,comma,omitempty"`
	Limit           int      `url:"limit"`
	Offset          int      `url:"offset"`
	IncludeSnippets bool     `url:"include_snippets"`
	SnippetLength   int      `url:"snippet_length"`
	SearchMode      string   `url:"search_mode"`
}

func newSearchParams(req domain.SearchRequest) searchParams {
	return searchParams{
		Query:           req.Query,
		Tags:            req.Tags,
		MimeTypes:       req.MimeTypes,
		Limit:           req.Limit,
		Offset:          req.Offset,
		IncludeSnippets: req.IncludeSnippets,
		SnippetLength:   req.SnippetLength,
		SearchMode:      req.SearchMode.String(),
	}
}

type searchResponse struct {
	Documents   *[]documentJSON `json:"documents"`
	Total       *int64          `json:"total"`
	QueryTimeMs int64           `json:"query_time_ms"`
	Suggestions []string        `json:"suggestions"`
}

type documentJSON struct {
	ID                  string        `json:"id"`
	Filename            string        `json:"filename"`
	OriginalFilename    string        `json:"original_filename"`
	FileSize            int64         `json:"file_size"`
	MimeType            string        `json:"mime_type"`
	Tags                []string      `json:"tags"`
	CreatedAt           *time.Time    `json:"created_at"`
	HasOCRText          bool          `json:"has_ocr_text"`
	OCRConfidence       *float64      `json:"ocr_confidence"`
	OCRWordCount        *int          `json:"ocr_word_count"`
	OCRProcessingTimeMs *int          `json:"ocr_processing_time_ms"`
	OCRStatus           *string       `json:"ocr_status"`
	SearchRank          *float64      `json:"search_rank"`
	Snippets            []snippetJSON `json:"snippets"`
}

type snippetJSON struct {
	Text            string          `json:"text"`
	StartOffset     int             `json:"start_offset"`
	EndOffset       int             `json:"end_offset"`
	HighlightRanges []highlightJSON `json:"highlight_ranges"`
}

type highlightJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type facetsResponse struct {
	MimeTypes []facetJSON `json:"mime_types"`
	Tags      []facetJSON `json:"tags"`
}

type facetJSON struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// toPage validates the response shape and converts it to the domain page.
func (r *searchResponse) toPage() (*domain.SearchResultPage, error) {
	if r.Documents == nil {
		return nil, fmt.Errorf("%w: missing documents", domain.ErrMalformedResponse)
	}
	if r.Total == nil {
		return nil, fmt.Errorf("%w: missing total", domain.ErrMalformedResponse)
	}

	docs := make([]domain.DocumentSummary, 0, len(*r.Documents))
	for i, d := range *r.Documents {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: document %d has no id", domain.ErrMalformedResponse, i)
		}
		docs = append(docs, d.toDomain())
	}

	return &domain.SearchResultPage{
		Documents:         docs,
		TotalCount:        int(*r.Total),
		QueryTimeMs:       r.QueryTimeMs,
		ServerSuggestions: r.Suggestions,
	}, nil
}

func (d *documentJSON) toDomain() domain.DocumentSummary {
	doc := domain.DocumentSummary{
		ID:               d.ID,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		SizeBytes:        d.FileSize,
		MimeType:         d.MimeType,
		HasOCRText:       d.HasOCRText,
		OCRConfidence:    d.OCRConfidence,
		Tags:             d.Tags,
		Relevance:        d.SearchRank,
	}
	if d.CreatedAt != nil {
		doc.CreatedAt = *d.CreatedAt
	}
	for _, s := range d.Snippets {
		snippet := domain.Snippet{
			Text:        s.Text,
			StartOffset: s.StartOffset,
			EndOffset:   s.EndOffset,
		}
		for _, h := range s.HighlightRanges {
			snippet.Highlights = append(snippet.Highlights, domain.HighlightRange{Start: h.Start, End: h.End})
		}
		doc.Snippets = append(doc.Snippets, snippet)
	}
	return doc
}

func (r *facetsResponse) toDomain() *domain.Facets {
	facets := &domain.Facets{}
	for _, f := range r.MimeTypes {
		facets.MimeTypes = append(facets.MimeTypes, domain.FacetItem{Value: f.Value, Count: f.Count})
	}
	for _, f := range r.Tags {
		facets.Tags = append(facets.Tags, domain.FacetItem{Value: f.Value, Count: f.Count})
	}
	return facets
}

package domain

import "time"

// Request defaults that are always sent.
const (
	// DefaultSnippetLength is the snippet size in characters.
	DefaultSnippetLength = 200

	// MinQueryLength is the shortest query the server accepts.
	MinQueryLength = 2

	// MaxQueryLength is the longest query, in bytes, the server accepts.
	MaxQueryLength = 1000
)

// SearchRequest is the immutable snapshot sent to the remote search service.
// Dimensions at their default value are left empty and omitted on the wire.
// Age, size and OCR filters are never part of a request.
type SearchRequest struct {
	// Query is the trimmed, non-empty query text.
	Query string

	// Tags is nil when no tag filter is active.
	Tags []string

	// MimeTypes is nil when no MIME type filter is active.
	MimeTypes []string

	// Limit is the page size.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeSnippets asks the server for matching text snippets.
	IncludeSnippets bool

	// SnippetLength is the snippet size in characters.
	SnippetLength int

	// SearchMode selects the matching algorithm.
	SearchMode SearchMode

	// Enhanced selects the enhanced search endpoint.
	Enhanced bool
}

// HighlightRange marks a highlighted span within a snippet.
type HighlightRange struct {
	Start int
	End   int
}

// Snippet is a fragment of matched document text.
type Snippet struct {
	// Text is the snippet content.
	Text string

	// StartOffset is the character position in the original document.
	StartOffset int

	// EndOffset is the end character position in the original document.
	EndOffset int

	// Highlights marks the matched terms within Text.
	Highlights []HighlightRange
}

// DocumentSummary is the read-only metadata of one matched document.
type DocumentSummary struct {
	// ID is the document identifier (a UUID string).
	ID string

	// Filename is the stored filename.
	Filename string

	// OriginalFilename is the filename at upload time.
	OriginalFilename string

	// SizeBytes is the file size in bytes.
	SizeBytes int64

	// MimeType is the detected MIME type.
	MimeType string

	// CreatedAt is when the document was added. The zero value means
	// the server did not report it.
	CreatedAt time.Time

	// HasOCRText is true when OCR text was extracted.
	HasOCRText bool

	// OCRConfidence is the OCR confidence (0-100), when known.
	OCRConfidence *float64

	// Tags are the document's tags.
	Tags []string

	// Snippets are the matched fragments, when requested.
	Snippets []Snippet

	// Relevance is the server's rank, when provided.
	Relevance *float64
}

// SizeMB returns the file size in megabytes (bytes / 1024^2).
func (d DocumentSummary) SizeMB() float64 {
	return float64(d.SizeBytes) / (1024 * 1024)
}

// DisplayName returns the original filename, falling back to the stored one.
func (d DocumentSummary) DisplayName() string {
	if d.OriginalFilename != "" {
		return d.OriginalFilename
	}
	return d.Filename
}

// SearchResultPage is one page of results from the remote search service.
type SearchResultPage struct {
	// Documents is the ordered result list.
	Documents []DocumentSummary

	// TotalCount is the server's count of matching documents.
	TotalCount int

	// QueryTimeMs is the server-side query time.
	QueryTimeMs int64

	// ServerSuggestions are alternative queries proposed by the server.
	ServerSuggestions []string
}

// FacetItem is one facet value with its document count.
type FacetItem struct {
	Value string
	Count int64
}

// Facets lists the available filter values with document counts.
type Facets struct {
	MimeTypes []FacetItem
	Tags      []FacetItem
}

// SearchOutcome is the result of one complete search cycle: the server page
// narrowed by client-side refinement. TotalCount stays the server's count
// even when Documents was narrowed.
type SearchOutcome struct {
	// Request is the request that was sent, nil when the query was empty.
	Request *SearchRequest

	// Documents is the refined result list.
	Documents []DocumentSummary

	// TotalCount is the server's pre-refinement count.
	TotalCount int

	// QueryTimeMs is the server-side query time.
	QueryTimeMs int64

	// ServerSuggestions are alternative queries proposed by the server.
	ServerSuggestions []string
}

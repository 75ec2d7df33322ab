package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// SearchClient executes requests against the remote search service.
// Implementations own transport concerns: credentials, timeouts, throttling.
type SearchClient interface {
	// Search runs the request against the plain or enhanced endpoint,
	// selected by req.Enhanced. A response whose shape is unexpected
	// returns an error wrapping domain.ErrMalformedResponse.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error)

	// Facets returns the available MIME types and tags with counts.
	Facets(ctx context.Context) (*domain.Facets, error)

	// Download opens the byte stream of a document.
	// The caller must close the returned stream.
	Download(ctx context.Context, documentID string) (*Download, error)

	// DocumentURL returns the server's detail page for a document.
	DocumentURL(documentID string) string
}

// Download is an open document byte stream.
type Download struct {
	// Body is the document content.
	Body io.ReadCloser

	// Filename is the server-suggested filename, possibly empty.
	Filename string

	// ContentType is the MIME type of the content.
	ContentType string

	// Size is the content length, or -1 if unknown.
	Size int64
}

package driving

import (
	"context"
)

// DocumentActionService provides actions on result documents.
// This is used by TUI, CLI, and MCP adapters.
type DocumentActionService interface {
	// DocumentURL returns the detail view location of a document.
	DocumentURL(documentID string) (string, error)

	// OpenDocument opens the document's detail view in the default browser.
	OpenDocument(ctx context.Context, documentID string) error

	// Download saves the document into dir and returns the written path.
	Download(ctx context.Context, documentID, dir string) (string, error)
}

// Package domain defines the core entities of the document search client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FilterState: every user-controlled filter dimension of a search view
//   - SearchRequest: immutable snapshot sent to the remote search service
//   - SearchResultPage: one page of results returned by the remote service
//   - DocumentSummary: read-only metadata of a matched document
//   - SearchSnapshot: the published, settled state of a search session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

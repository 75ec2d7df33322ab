// Package readur implements driven.SearchClient against a Readur document
// management server.
//
// # Endpoints
//
//   - GET /api/search: plain search
//   - GET /api/search/enhanced: enhanced search, same contract
//   - GET /api/search/facets: MIME type and tag counts
//   - GET /api/documents/{id}/download: document bytes
//
// Search parameters are sent as a query string. List parameters (tags,
// mime_types) are comma-joined and omitted when empty.
//
// # Authentication
//
// A bearer token is injected into every request through an oauth2 static
// token source. Without a token requests are sent unauthenticated and the
// server usually answers 401, reported as [domain.ErrUnauthorized].
//
// # Rate Limiting
//
// Requests pass a token bucket sized by the configured requests per second.
// A 429 response blocks further requests until its Retry-After has elapsed
// and is reported as [domain.ErrRateLimited].
//
// # Errors
//
// Non-success statuses become *APIError values that unwrap to the domain
// sentinels, so callers match with errors.Is. Bodies that do not decode into
// the expected shape wrap [domain.ErrMalformedResponse].
package readur

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange indicates a range whose minimum exceeds its maximum
	// or whose bounds are negative.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidDocumentID indicates a document identifier that is not a UUID.
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrNoServer indicates no search server URL is configured.
	ErrNoServer = errors.New("search server not configured")

	// ErrSessionClosed indicates the search session event loop has stopped.
	ErrSessionClosed = errors.New("search session closed")

	// Remote Search Errors.

	// ErrRemoteSearch indicates the remote search call failed
	// (network failure or non-success status).
	ErrRemoteSearch = errors.New("remote search failed")

	// ErrMalformedResponse indicates the remote service answered with a body
	// that does not match the expected response shape.
	ErrMalformedResponse = errors.New("malformed search response")

	// ErrUnauthorized indicates the credential was missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the remote service rejected the call for
	// exceeding its request rate.
	ErrRateLimited = errors.New("rate limited")
)

// UserMessage maps an error from a search cycle to the single inline notice
// shown to the user. Unknown errors fall back to a generic retry hint.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Search failed: not authorised, check the configured token"
	case errors.Is(err, ErrRateLimited):
		return "Search failed: too many requests, slow down and try again"
	case errors.Is(err, ErrMalformedResponse):
		return "Search failed: the server returned an unexpected response"
	case errors.Is(err, ErrInvalidInput):
		return "Search failed: " + err.Error()
	case errors.Is(err, ErrNoServer):
		return "Search failed: no server configured"
	default:
		return "Search failed, please try again"
	}
}

package driven

import "net/url"

// Location is the navigable location (URL) of the search view.
// Only the query parameters are owned by the search core.
type Location interface {
	// Values returns a copy of the current query parameters.
	Values() url.Values

	// Replace replaces the query parameters in place, without adding a
	// navigation history entry.
	Replace(values url.Values) error

	// String returns the full shareable location.
	String() string
}

package services

import (
	"strings"

	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
)

// QueryParam is the location parameter carrying the free-text query.
const QueryParam = "q"

// URLSynchronizer mirrors the filter query into the location's q parameter.
//
// It remembers the last value it wrote, so reading the location back after
// its own write is never mistaken for a navigation by the user.
type URLSynchronizer struct {
	location    driven.Location
	lastWritten string
}

// NewURLSynchronizer creates a synchronizer bound to a location.
func NewURLSynchronizer(location driven.Location) *URLSynchronizer {
	return &URLSynchronizer{location: location}
}

// Mount reads the location once at view mount. It returns the parameter
// value and true when it is present and differs from the current query,
// in which case the caller initialises its query from it.
func (u *URLSynchronizer) Mount(current string) (string, bool) {
	if u.location == nil {
		return current, false
	}
	v := u.location.Values().Get(QueryParam)
	u.lastWritten = v
	if v == "" || v == current {
		return current, false
	}
	return v, true
}

// QueryChanged writes the trimmed query to the location, or removes the
// parameter when the query is empty.
func (u *URLSynchronizer) QueryChanged(query string) error {
	if u.location == nil {
		return nil
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == u.lastWritten {
		return nil
	}

	values := u.location.Values()
	if trimmed == "" {
		values.Del(QueryParam)
	} else {
		values.Set(QueryParam, trimmed)
	}
	if err := u.location.Replace(values); err != nil {
		return err
	}
	u.lastWritten = trimmed
	return nil
}

// Observe re-reads the location after external navigation. It reports the
// new query only when it differs from the value last written here.
func (u *URLSynchronizer) Observe() (string, bool) {
	if u.location == nil {
		return "", false
	}
	v := u.location.Values().Get(QueryParam)
	if v == u.lastWritten {
		return "", false
	}
	u.lastWritten = v
	return v, true
}

// URL returns the current shareable location.
func (u *URLSynchronizer) URL() string {
	if u.location == nil {
		return ""
	}
	return u.location.String()
}

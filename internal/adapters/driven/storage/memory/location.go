package memory

import (
	"net/url"
	"sync"

	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
)

// Ensure Location implements the interface.
var _ driven.Location = (*Location)(nil)

// Location is an in-memory navigation location.
type Location struct {
	mu     sync.RWMutex
	base   string
	values url.Values
	writes int
}

// NewLocation creates a location at base with an optional raw query string.
func NewLocation(base, rawQuery string) *Location {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	return &Location{base: base, values: values}
}

// Values returns a copy of the query parameters.
func (l *Location) Values() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneValues(l.values)
}

// Replace swaps the query parameters without adding a history entry.
func (l *Location) Replace(values url.Values) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = cloneValues(values)
	l.writes++
	return nil
}

// Navigate simulates external navigation, such as a back button, by
// replacing the query parameters without counting a write.
func (l *Location) Navigate(rawQuery string) error {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = values
	return nil
}

// Writes returns how many times Replace was called.
func (l *Location) Writes() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.writes
}

// String returns the shareable URL.
func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.values) == 0 {
		return l.base
	}
	return l.base + "?" + l.values.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Default filter bounds. A range spanning exactly these bounds applies no
// filtering.
const (
	// DefaultMaxAgeDays is the upper bound of the document age range.
	DefaultMaxAgeDays = 365

	// DefaultMaxSizeMB is the upper bound of the file size range.
	DefaultMaxSizeMB = 100.0

	// DefaultResultLimit is the number of results requested per search.
	DefaultResultLimit = 25

	// MaxResultLimit is the largest page the server accepts.
	MaxResultLimit = 1000
)

// SearchMode selects the matching algorithm of the remote search service.
type SearchMode string

// Available search modes.
const (
	// SearchModeSimple matches individual words.
	SearchModeSimple SearchMode = "simple"

	// SearchModePhrase matches the query as an exact phrase.
	SearchModePhrase SearchMode = "phrase"

	// SearchModeFuzzy tolerates typos and partial matches.
	SearchModeFuzzy SearchMode = "fuzzy"

	// SearchModeBoolean interprets AND, OR and NOT operators.
	SearchModeBoolean SearchMode = "boolean"
)

// SearchModes lists every mode in display order.
func SearchModes() []SearchMode {
	return []SearchMode{SearchModeSimple, SearchModePhrase, SearchModeFuzzy, SearchModeBoolean}
}

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeSimple, SearchModePhrase, SearchModeFuzzy, SearchModeBoolean:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Next returns the mode following m in display order, wrapping around.
func (m SearchMode) Next() SearchMode {
	modes := SearchModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return SearchModeSimple
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeSimple:
		return "Simple (word matching)"
	case SearchModePhrase:
		return "Phrase (exact match)"
	case SearchModeFuzzy:
		return "Fuzzy (typo tolerant)"
	case SearchModeBoolean:
		return "Boolean (AND, OR, NOT)"
	default:
		return "Unknown"
	}
}

// OCRPresence filters documents by whether OCR text was extracted.
type OCRPresence string

// Available OCR presence filters.
const (
	OCRAll     OCRPresence = "all"
	OCRPresent OCRPresence = "present"
	OCRAbsent  OCRPresence = "absent"
)

// IsValid returns true if the OCR presence value is recognised.
func (o OCRPresence) IsValid() bool {
	switch o {
	case OCRAll, OCRPresent, OCRAbsent:
		return true
	default:
		return false
	}
}

// Next cycles all -> present -> absent -> all.
func (o OCRPresence) Next() OCRPresence {
	switch o {
	case OCRAll:
		return OCRPresent
	case OCRPresent:
		return OCRAbsent
	default:
		return OCRAll
	}
}

// String returns the string representation.
func (o OCRPresence) String() string {
	return string(o)
}

// DayRange is an inclusive range of document ages in whole days.
type DayRange struct {
	Min int
	Max int
}

// Validate checks the range is ordered and non-negative.
func (r DayRange) Validate() error {
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: age %d..%d days", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether days lies within the range.
func (r DayRange) Contains(days int) bool {
	return days >= r.Min && days <= r.Max
}

// IsDefault reports whether the range spans the full default bounds.
func (r DayRange) IsDefault() bool {
	return r == DefaultAgeRange()
}

// DefaultAgeRange returns the age range that applies no filtering.
func DefaultAgeRange() DayRange {
	return DayRange{Min: 0, Max: DefaultMaxAgeDays}
}

// SizeRange is an inclusive range of file sizes in megabytes.
type SizeRange struct {
	Min float64
	Max float64
}

// Validate checks the range is ordered and non-negative.
func (r SizeRange) Validate() error {
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: size %g..%g MB", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether mb lies within the range.
func (r SizeRange) Contains(mb float64) bool {
	return mb >= r.Min && mb <= r.Max
}

// IsDefault reports whether the range spans the full default bounds.
func (r SizeRange) IsDefault() bool {
	return r == DefaultSizeRange()
}

// DefaultSizeRange returns the size range that applies no filtering.
func DefaultSizeRange() SizeRange {
	return SizeRange{Min: 0, Max: DefaultMaxSizeMB}
}

// FilterState holds the current value of every filter dimension of a search
// view. It is plain data; the search session is its only writer.
type FilterState struct {
	// Query is the raw free-text query as typed.
	Query string

	// Tags restricts results to documents carrying any of these tags.
	Tags []string

	// MimeTypes restricts results to these MIME types.
	MimeTypes []string

	// AgeRangeDays is applied client-side after the response arrives.
	AgeRangeDays DayRange

	// SizeRangeMB is applied client-side after the response arrives.
	SizeRangeMB SizeRange

	// OCRPresence is applied client-side after the response arrives.
	OCRPresence OCRPresence

	// ResultLimit is the page size requested from the server.
	ResultLimit int

	// SearchMode selects the server's matching algorithm.
	SearchMode SearchMode

	// UseEnhancedBackend selects the enhanced search endpoint.
	UseEnhancedBackend bool
}

// DefaultFilterState returns the state a search view mounts with.
func DefaultFilterState() FilterState {
	return FilterState{
		AgeRangeDays: DefaultAgeRange(),
		SizeRangeMB:  DefaultSizeRange(),
		OCRPresence:  OCRAll,
		ResultLimit:  DefaultResultLimit,
		SearchMode:   SearchModeSimple,
	}
}

// Validate checks the FilterState invariants.
func (f FilterState) Validate() error {
	if err := f.AgeRangeDays.Validate(); err != nil {
		return err
	}
	if err := f.SizeRangeMB.Validate(); err != nil {
		return err
	}
	if !f.OCRPresence.IsValid() {
		return fmt.Errorf("%w: ocr presence %q", ErrInvalidInput, f.OCRPresence)
	}
	if !f.SearchMode.IsValid() {
		return fmt.Errorf("%w: search mode %q", ErrInvalidInput, f.SearchMode)
	}
	if f.ResultLimit < 1 || f.ResultLimit > MaxResultLimit {
		return fmt.Errorf("%w: result limit %d (1..%d)", ErrInvalidInput, f.ResultLimit, MaxResultLimit)
	}
	return nil
}

// HasRefinement reports whether any client-side filter is narrowing results.
func (f FilterState) HasRefinement() bool {
	return !f.AgeRangeDays.IsDefault() || !f.SizeRangeMB.IsDefault() || f.OCRPresence != OCRAll
}

// Clone returns a copy that shares no slices with f.
func (f FilterState) Clone() FilterState {
	c := f
	c.Tags = append([]string(nil), f.Tags...)
	c.MimeTypes = append([]string(nil), f.MimeTypes...)
	return c
}

// NormalizeSet trims, deduplicates and sorts a set of strings.
// Empty members are dropped; an empty result is nil.
func NormalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

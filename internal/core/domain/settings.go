package domain

import (
	"fmt"
	"net/url"
	"time"
)

// ServerSettings holds the remote search service connection.
type ServerSettings struct {
	// BaseURL is the server root, e.g. https://readur.example.com.
	BaseURL string

	// Token is the bearer credential injected into every request.
	Token string

	// Enhanced selects the enhanced search endpoint by default.
	Enhanced bool

	// Timeout bounds each remote call.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if a server URL is set.
func (s ServerSettings) IsConfigured() bool {
	return s.BaseURL != ""
}

// SearchSettings holds request defaults.
type SearchSettings struct {
	// Mode is the default search mode.
	Mode SearchMode

	// Limit is the default page size.
	Limit int

	// SnippetLength is the snippet size in characters.
	SnippetLength int

	// IncludeSnippets asks the server for snippets.
	IncludeSnippets bool
}

// TimingSettings tunes the debounce and progress timers.
type TimingSettings struct {
	// SearchDebounce is the quiet period before a search cycle starts.
	SearchDebounce time.Duration

	// SuggestDebounce is the quiet period before quick suggestions refresh.
	SuggestDebounce time.Duration

	// ProgressInterval is the period between progress increments.
	ProgressInterval time.Duration

	// ProgressStep is the percentage added per increment.
	ProgressStep int

	// ProgressClear is how long 100% stays visible before clearing.
	ProgressClear time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Server holds the remote service connection.
	Server ServerSettings

	// Search holds request defaults.
	Search SearchSettings

	// Timing holds debounce and progress timing.
	Timing TimingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The server URL is left empty; users configure it explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
		},
		Search: SearchSettings{
			Mode:            SearchModeSimple,
			Limit:           DefaultResultLimit,
			SnippetLength:   DefaultSnippetLength,
			IncludeSnippets: true,
		},
		Timing: TimingSettings{
			SearchDebounce:   300 * time.Millisecond,
			SuggestDebounce:  150 * time.Millisecond,
			ProgressInterval: 200 * time.Millisecond,
			ProgressStep:     10,
			ProgressClear:    500 * time.Millisecond,
		},
	}
}

// Validate checks settings before they are persisted.
func (s AppSettings) Validate() error {
	if s.Server.BaseURL != "" {
		u, err := url.Parse(s.Server.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: server url %q", ErrInvalidInput, s.Server.BaseURL)
		}
	}
	if s.Server.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidInput)
	}
	if !s.Search.Mode.IsValid() {
		return fmt.Errorf("%w: search mode %q", ErrInvalidInput, s.Search.Mode)
	}
	if s.Search.Limit < 1 || s.Search.Limit > MaxResultLimit {
		return fmt.Errorf("%w: limit %d (1..%d)", ErrInvalidInput, s.Search.Limit, MaxResultLimit)
	}
	if s.Search.SnippetLength < 1 {
		return fmt.Errorf("%w: snippet length %d", ErrInvalidInput, s.Search.SnippetLength)
	}
	if s.Timing.SearchDebounce <= 0 || s.Timing.SuggestDebounce <= 0 {
		return fmt.Errorf("%w: debounce delays must be positive", ErrInvalidInput)
	}
	if s.Timing.ProgressInterval <= 0 || s.Timing.ProgressClear <= 0 {
		return fmt.Errorf("%w: progress interval and clear delay must be positive", ErrInvalidInput)
	}
	if s.Timing.ProgressStep < 1 || s.Timing.ProgressStep > 99 {
		return fmt.Errorf("%w: progress step %d (1..99)", ErrInvalidInput, s.Timing.ProgressStep)
	}
	return nil
}

package domain

// Phase is the stage of the current search cycle.
type Phase string

// Search cycle phases.
const (
	// PhaseIdle is the state before the first input.
	PhaseIdle Phase = "idle"

	// PhaseTyping means a search trigger is pending.
	PhaseTyping Phase = "typing"

	// PhaseRequesting means the remote call is in flight.
	PhaseRequesting Phase = "requesting"

	// PhaseRefining means the client-side filter pass is running.
	PhaseRefining Phase = "refining"

	// PhaseSettled means results (or an error) are final for the cycle.
	PhaseSettled Phase = "settled"
)

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// SearchSnapshot is the published state of a search session.
// Snapshots are immutable once published; the next one supersedes it whole.
type SearchSnapshot struct {
	// Filters is the current filter state.
	Filters FilterState

	// Cycle is the identifier of the most recently issued search cycle.
	Cycle uint64

	// Documents is the refined, rendered result list.
	Documents []DocumentSummary

	// TotalCount is the server's count for the last settled cycle. It is
	// not reduced by client-side refinement.
	TotalCount int

	// QueryTimeMs is the server query time of the last settled cycle.
	QueryTimeMs int64

	// ServerSuggestions come from the remote service.
	ServerSuggestions []string

	// QuickSuggestions are local rewrites of the current query.
	QuickSuggestions []string

	// Phase is the stage of the current cycle.
	Phase Phase

	// Busy is true while a debounce trigger is pending or a call is in flight.
	Busy bool

	// Progress is an approximate completion percentage for UI feedback.
	Progress int

	// Err is the error of the last settled cycle, if any.
	Err error

	// URL is the current shareable location.
	URL string
}

// ErrorMessage returns the inline notice for the snapshot's error.
func (s SearchSnapshot) ErrorMessage() string {
	return UserMessage(s.Err)
}

package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
	"github.com/custodia-labs/docsearch/internal/logger"
)

// Ensure SearchSession implements the interface.
var _ driving.SearchSession = (*SearchSession)(nil)

// SessionOptions configures a search session.
type SessionOptions struct {
	// Clock drives debounce, progress and document ages. Defaults to the
	// wall clock.
	Clock clock.Clock

	// Settings holds timing and request defaults.
	Settings domain.AppSettings

	// Filters is the initial filter state. Nil mounts with defaults derived
	// from Settings.
	Filters *domain.FilterState
}

// SearchSession orchestrates interactive searching.
//
// All session state is owned by a single event-loop goroutine. Setters,
// debounce expiries and remote completions are closures executed on that
// loop, one at a time. The only suspension points are timer expiry and the
// completion of a remote call. Every search cycle gets an identifier from a
// monotonically increasing counter; a response whose identifier is not the
// latest is discarded.
type SearchSession struct {
	client driven.SearchClient
	clock  clock.Clock
	log    *logger.Logger

	events     chan func()
	progressed chan struct{}
	updates    chan domain.SearchSnapshot
	started    chan struct{}
	stopped    chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	startOnce  sync.Once

	// Owned by the event loop.
	settings domain.AppSettings
	filters  domain.FilterState
	search   *Debouncer
	suggest  *Debouncer
	urlSync  *URLSynchronizer
	progress *ProgressReporter
	cycle    uint64
	inFlight bool

	searchPending  bool
	suggestPending bool
	page           *domain.SearchResultPage
	documents      []domain.DocumentSummary
	quick          []string
	phase          domain.Phase
	err            error
}

// NewSearchSession creates a session. Call Start to mount it.
func NewSearchSession(client driven.SearchClient, location driven.Location, opts SessionOptions) *SearchSession {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	filters := domain.DefaultFilterState()
	filters.ResultLimit = opts.Settings.Search.Limit
	filters.SearchMode = opts.Settings.Search.Mode
	filters.UseEnhancedBackend = opts.Settings.Server.Enhanced
	if opts.Filters != nil {
		filters = opts.Filters.Clone()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &SearchSession{
		client:     client,
		clock:      clk,
		log:        logger.Named("session"),
		events:     make(chan func(), 64),
		progressed: make(chan struct{}, 1),
		updates:    make(chan domain.SearchSnapshot, 1),
		started:    make(chan struct{}),
		stopped:    make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		settings:   opts.Settings,
		filters:    filters,
		urlSync:    NewURLSynchronizer(location),
		phase:      domain.PhaseIdle,
	}

	timing := opts.Settings.Timing
	s.search = NewDebouncer(clk, timing.SearchDebounce, func() { s.post(s.startCycle) })
	s.suggest = NewDebouncer(clk, timing.SuggestDebounce, func() { s.post(s.refreshSuggestions) })
	s.progress = NewProgressReporter(clk, timing.ProgressInterval, timing.ProgressStep, timing.ProgressClear, s.markProgressed)

	return s
}

// Start mounts the session and runs its event loop until ctx is cancelled
// or Close is called.
func (s *SearchSession) Start(ctx context.Context) error {
	first := false
	s.startOnce.Do(func() {
		first = true
		go s.run()
		close(s.started)
		go func() {
			select {
			case <-ctx.Done():
				s.cancel()
			case <-s.ctx.Done():
			}
		}()
	})
	if !first {
		return fmt.Errorf("%w: session already started", domain.ErrInvalidInput)
	}
	return s.do(func() error {
		s.mount()
		return nil
	})
}

// Close stops the event loop, pending timers and in-flight calls.
func (s *SearchSession) Close() {
	s.cancel()
	select {
	case <-s.started:
		<-s.stopped
	default:
	}
}

func (s *SearchSession) run() {
	defer close(s.stopped)
	defer close(s.updates)
	defer s.progress.Reset()
	defer s.suggest.Stop()
	defer s.search.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.events:
			fn()
		case <-s.progressed:
			s.publish()
		}
	}
}

// do runs fn on the event loop and waits for its result.
func (s *SearchSession) do(fn func() error) error {
	select {
	case <-s.started:
	default:
		return domain.ErrSessionClosed
	}

	errc := make(chan error, 1)
	select {
	case s.events <- func() { errc <- fn() }:
	case <-s.ctx.Done():
		return domain.ErrSessionClosed
	}

	select {
	case err := <-errc:
		return err
	case <-s.stopped:
		select {
		case err := <-errc:
			return err
		default:
			return domain.ErrSessionClosed
		}
	}
}

// post queues fn on the event loop without waiting. Used by timers and
// remote completions, never from the loop itself.
func (s *SearchSession) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.ctx.Done():
	}
}

func (s *SearchSession) markProgressed() {
	select {
	case s.progressed <- struct{}{}:
	default:
	}
}

func (s *SearchSession) mount() {
	query, fromURL := s.urlSync.Mount(s.filters.Query)
	s.filters.Query = query
	if fromURL {
		s.log.Debug("query initialised from location: %q", query)
	} else if err := s.urlSync.QueryChanged(query); err != nil {
		s.log.Warn("location update failed: %v", err)
	}
	if strings.TrimSpace(query) != "" {
		s.queryEdited()
		return
	}
	s.publish()
}

// queryEdited routes a query change to both debouncers.
func (s *SearchSession) queryEdited() {
	s.phase = domain.PhaseTyping
	s.searchPending = true
	s.suggestPending = true
	s.search.Trigger()
	s.suggest.Trigger()
	s.publish()
}

// searchEdited routes a server-side filter change to the search debouncer.
func (s *SearchSession) searchEdited() {
	s.phase = domain.PhaseTyping
	s.searchPending = true
	s.search.Trigger()
	s.publish()
}

// refinementEdited re-applies client-side filters to the current page
// without a remote call.
func (s *SearchSession) refinementEdited() {
	if s.page != nil {
		settled := s.phase == domain.PhaseSettled
		if settled {
			s.phase = domain.PhaseRefining
		}
		s.documents = RefineWith(s.page.Documents, s.filters, s.clock.Now())
		if settled {
			s.phase = domain.PhaseSettled
		}
		s.log.Debug("re-refined cycle %d: %d of %d documents", s.cycle, len(s.documents), len(s.page.Documents))
	}
	s.publish()
}

func (s *SearchSession) startCycle() {
	s.searchPending = false
	s.cycle++
	id := s.cycle

	req, ok, err := BuildRequest(s.filters, s.settings.Search)
	if err != nil {
		s.log.Warn("cycle %d: %v", id, err)
		s.inFlight = false
		s.progress.Reset()
		s.fail(err)
		return
	}
	if !ok {
		s.log.Debug("cycle %d: empty query, clearing results", id)
		s.inFlight = false
		s.progress.Reset()
		s.page = nil
		s.documents = nil
		s.quick = nil
		s.err = nil
		s.phase = domain.PhaseSettled
		s.publish()
		return
	}

	s.log.Debug("cycle %d issued: query=%q enhanced=%t", id, req.Query, req.Enhanced)
	s.inFlight = true
	s.phase = domain.PhaseRequesting
	s.progress.Start()
	s.publish()

	client, ctx := s.client, s.ctx
	go func() {
		page, err := client.Search(ctx, req)
		s.post(func() { s.completeCycle(id, page, err) })
	}()
}

func (s *SearchSession) completeCycle(id uint64, page *domain.SearchResultPage, err error) {
	if id != s.cycle {
		s.log.Debug("discarding stale response of cycle %d (latest %d)", id, s.cycle)
		return
	}
	s.inFlight = false
	s.progress.Complete()

	if err == nil && page == nil {
		err = domain.ErrMalformedResponse
	}
	if err != nil {
		s.log.Warn("cycle %d failed: %v", id, err)
		s.fail(err)
		return
	}

	s.phase = domain.PhaseRefining
	s.page = page
	s.documents = RefineWith(page.Documents, s.filters, s.clock.Now())
	s.err = nil
	s.phase = domain.PhaseSettled
	s.log.Debug("cycle %d settled: %d of %d documents, total %d, %dms",
		id, len(s.documents), len(page.Documents), page.TotalCount, page.QueryTimeMs)
	s.publish()
}

// fail settles the cycle with an error and an empty result set. Filters,
// quick suggestions and the location are left untouched.
func (s *SearchSession) fail(err error) {
	s.page = nil
	s.documents = nil
	s.err = err
	s.phase = domain.PhaseSettled
	s.publish()
}

func (s *SearchSession) refreshSuggestions() {
	s.suggestPending = false
	if strings.TrimSpace(s.filters.Query) == "" {
		s.quick = nil
	} else {
		s.quick = QuickSuggestions(s.filters.Query)
	}
	s.publish()
}

func (s *SearchSession) snapshot() domain.SearchSnapshot {
	snap := domain.SearchSnapshot{
		Filters:          s.filters.Clone(),
		Cycle:            s.cycle,
		Documents:        s.documents,
		QuickSuggestions: s.quick,
		Phase:            s.phase,
		Busy:             s.searchPending || s.suggestPending || s.inFlight,
		Progress:         s.progress.Percent(),
		Err:              s.err,
		URL:              s.urlSync.URL(),
	}
	if s.page != nil {
		snap.TotalCount = s.page.TotalCount
		snap.QueryTimeMs = s.page.QueryTimeMs
		snap.ServerSuggestions = s.page.ServerSuggestions
	}
	return snap
}

// publish offers the latest snapshot, replacing one the reader has not
// taken yet. Only the event loop sends on updates.
func (s *SearchSession) publish() {
	snap := s.snapshot()
	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

// Updates delivers published snapshots, latest wins. The channel is closed
// when the session stops.
func (s *SearchSession) Updates() <-chan domain.SearchSnapshot {
	return s.updates
}

// Snapshot returns the current state.
func (s *SearchSession) Snapshot() (domain.SearchSnapshot, error) {
	var snap domain.SearchSnapshot
	err := s.do(func() error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

// SetQuery updates the free-text query.
func (s *SearchSession) SetQuery(query string) error {
	return s.do(func() error {
		if query == s.filters.Query {
			return nil
		}
		s.filters.Query = query
		if err := s.urlSync.QueryChanged(query); err != nil {
			s.log.Warn("location update failed: %v", err)
		}
		s.queryEdited()
		return nil
	})
}

// SetTags replaces the tag filter.
func (s *SearchSession) SetTags(tags []string) error {
	tags = domain.NormalizeSet(tags)
	return s.do(func() error {
		if slices.Equal(tags, s.filters.Tags) {
			return nil
		}
		s.filters.Tags = tags
		s.searchEdited()
		return nil
	})
}

// SetMimeTypes replaces the MIME type filter.
func (s *SearchSession) SetMimeTypes(mimeTypes []string) error {
	mimeTypes = domain.NormalizeSet(mimeTypes)
	return s.do(func() error {
		if slices.Equal(mimeTypes, s.filters.MimeTypes) {
			return nil
		}
		s.filters.MimeTypes = mimeTypes
		s.searchEdited()
		return nil
	})
}

// SetAgeRange updates the client-side age filter.
func (s *SearchSession) SetAgeRange(r domain.DayRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.do(func() error {
		if r == s.filters.AgeRangeDays {
			return nil
		}
		s.filters.AgeRangeDays = r
		s.refinementEdited()
		return nil
	})
}

// SetSizeRange updates the client-side size filter.
func (s *SearchSession) SetSizeRange(r domain.SizeRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.do(func() error {
		if r == s.filters.SizeRangeMB {
			return nil
		}
		s.filters.SizeRangeMB = r
		s.refinementEdited()
		return nil
	})
}

// SetOCRPresence updates the client-side OCR filter.
func (s *SearchSession) SetOCRPresence(o domain.OCRPresence) error {
	if !o.IsValid() {
		return fmt.Errorf("%w: ocr presence %q", domain.ErrInvalidInput, o)
	}
	return s.do(func() error {
		if o == s.filters.OCRPresence {
			return nil
		}
		s.filters.OCRPresence = o
		s.refinementEdited()
		return nil
	})
}

// SetResultLimit updates the requested page size.
func (s *SearchSession) SetResultLimit(limit int) error {
	if limit < 1 || limit > domain.MaxResultLimit {
		return fmt.Errorf("%w: result limit %d (1..%d)", domain.ErrInvalidInput, limit, domain.MaxResultLimit)
	}
	return s.do(func() error {
		if limit == s.filters.ResultLimit {
			return nil
		}
		s.filters.ResultLimit = limit
		s.searchEdited()
		return nil
	})
}

// SetSearchMode updates the matching algorithm.
func (s *SearchSession) SetSearchMode(mode domain.SearchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: search mode %q", domain.ErrInvalidInput, mode)
	}
	return s.do(func() error {
		if mode == s.filters.SearchMode {
			return nil
		}
		s.filters.SearchMode = mode
		s.searchEdited()
		return nil
	})
}

// SetEnhanced selects the plain or enhanced backend.
func (s *SearchSession) SetEnhanced(enhanced bool) error {
	return s.do(func() error {
		if enhanced == s.filters.UseEnhancedBackend {
			return nil
		}
		s.filters.UseEnhancedBackend = enhanced
		s.searchEdited()
		return nil
	})
}

// LocationChanged adopts the location's query after external navigation.
// The session's own location writes are not reported back as changes.
func (s *SearchSession) LocationChanged() error {
	return s.do(func() error {
		query, changed := s.urlSync.Observe()
		if !changed || query == s.filters.Query {
			return nil
		}
		s.log.Debug("location navigated to query %q", query)
		s.filters.Query = query
		s.queryEdited()
		return nil
	})
}

// ApplySettings updates timing and request defaults for later cycles.
func (s *SearchSession) ApplySettings(settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.do(func() error {
		s.settings = settings
		s.search.SetDelay(settings.Timing.SearchDebounce)
		s.suggest.SetDelay(settings.Timing.SuggestDebounce)
		s.progress.Configure(settings.Timing.ProgressInterval, settings.Timing.ProgressStep, settings.Timing.ProgressClear)
		s.log.Debug("settings applied: search debounce %s, suggest debounce %s",
			settings.Timing.SearchDebounce, settings.Timing.SuggestDebounce)
		return nil
	})
}

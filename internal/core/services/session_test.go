package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
)

const (
	searchDelay  = 300 * time.Millisecond
	suggestDelay = 150 * time.Millisecond
	waitFor      = 2 * time.Second
	pollEvery    = 2 * time.Millisecond
)

func newTestSession(t *testing.T, client driven.SearchClient, loc driven.Location) (*SearchSession, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	s := NewSearchSession(client, loc, SessionOptions{
		Clock:    mock,
		Settings: domain.DefaultAppSettings(),
	})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s, mock
}

func snapshot(t *testing.T, s *SearchSession) domain.SearchSnapshot {
	t.Helper()
	snap, err := s.Snapshot()
	require.NoError(t, err)
	return snap
}

// settle waits until no trigger is pending and no call is in flight.
func settle(t *testing.T, s *SearchSession) domain.SearchSnapshot {
	t.Helper()
	var snap domain.SearchSnapshot
	require.Eventually(t, func() bool {
		snap = snapshot(t, s)
		return snap.Phase == domain.PhaseSettled && !snap.Busy
	}, waitFor, pollEvery)
	return snap
}

func TestSearchSession_NotStarted(t *testing.T) {
	s := NewSearchSession(&mockSearchClient{}, nil, SessionOptions{Settings: domain.DefaultAppSettings()})

	assert.ErrorIs(t, s.SetQuery("x"), domain.ErrSessionClosed)
	_, err := s.Snapshot()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSearchSession_StartTwice(t *testing.T) {
	s, _ := newTestSession(t, &mockSearchClient{}, nil)

	assert.Error(t, s.Start(context.Background()))
}

func TestSearchSession_MountsIdle(t *testing.T) {
	s, _ := newTestSession(t, &mockSearchClient{}, nil)

	snap := snapshot(t, s)

	assert.Equal(t, domain.PhaseIdle, snap.Phase)
	assert.False(t, snap.Busy)
	assert.Equal(t, domain.DefaultFilterState().AgeRangeDays, snap.Filters.AgeRangeDays)
	assert.Equal(t, domain.DefaultResultLimit, snap.Filters.ResultLimit)
}

func TestSearchSession_DebounceIssuesOneRequestFromFinalState(t *testing.T) {
	client := &mockSearchClient{}
	s, mock := newTestSession(t, client, nil)

	for _, q := range []string{"i", "in", "inv", "invo", "invoice"} {
		require.NoError(t, s.SetQuery(q))
		mock.Add(100 * time.Millisecond)
	}
	require.NoError(t, s.SetTags([]string{"finance"}))

	snap := snapshot(t, s)
	assert.True(t, snap.Busy)
	assert.Equal(t, domain.PhaseTyping, snap.Phase)
	assert.Zero(t, client.Calls())

	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)
	settle(t, s)

	req := client.Requests()[0]
	assert.Equal(t, "invoice", req.Query)
	assert.Equal(t, []string{"finance"}, req.Tags)
	assert.Never(t, func() bool { return client.Calls() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSearchSession_SettlesWithResults(t *testing.T) {
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error) {
			page := pageOf(2, domain.DocumentSummary{ID: "a"}, domain.DocumentSummary{ID: "b"})
			page.ServerSuggestions = []string{"invoices"}
			return page, nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(searchDelay)
	snap := settle(t, s)

	assert.Equal(t, []string{"a", "b"}, ids(snap.Documents))
	assert.Equal(t, 2, snap.TotalCount)
	assert.Equal(t, int64(12), snap.QueryTimeMs)
	assert.Equal(t, []string{"invoices"}, snap.ServerSuggestions)
	assert.Equal(t, []string{`"invoice"`, "tag:invoice", "invoice*"}, snap.QuickSuggestions)
	assert.Equal(t, uint64(1), snap.Cycle)
	assert.NoError(t, snap.Err)
}

func TestSearchSession_SuggestionsRefreshOnShorterDelay(t *testing.T) {
	client := &mockSearchClient{}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("rep"))
	mock.Add(suggestDelay)

	require.Eventually(t, func() bool {
		return len(snapshot(t, s).QuickSuggestions) == 3
	}, waitFor, pollEvery)
	assert.Zero(t, client.Calls())
	assert.True(t, snapshot(t, s).Busy)
}

func TestSearchSession_SuggestionsUseRawQueryLength(t *testing.T) {
	s, mock := newTestSession(t, &mockSearchClient{}, nil)

	require.NoError(t, s.SetQuery(" a"))
	mock.Add(suggestDelay)
	require.Eventually(t, func() bool {
		return len(snapshot(t, s).QuickSuggestions) == 3
	}, waitFor, pollEvery)
	assert.Equal(t, `" a"`, snapshot(t, s).QuickSuggestions[0])

	require.NoError(t, s.SetQuery("   "))
	mock.Add(suggestDelay)
	require.Eventually(t, func() bool {
		return len(snapshot(t, s).QuickSuggestions) == 0
	}, waitFor, pollEvery)
	assert.Never(t, func() bool {
		return len(snapshot(t, s).QuickSuggestions) > 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSearchSession_StaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error) {
			if req.Query == "first" {
				<-release
				return pageOf(1, domain.DocumentSummary{ID: "from-first"}), nil
			}
			return pageOf(1, domain.DocumentSummary{ID: "from-second"}), nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("first"))
	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)
	assert.Equal(t, domain.PhaseRequesting, snapshot(t, s).Phase)

	require.NoError(t, s.SetQuery("second"))
	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 2 }, waitFor, pollEvery)

	snap := settle(t, s)
	assert.Equal(t, []string{"from-second"}, ids(snap.Documents))

	close(release)
	assert.Never(t, func() bool {
		return ids(snapshot(t, s).Documents)[0] != "from-second"
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, uint64(2), snapshot(t, s).Cycle)
}

func TestSearchSession_EmptyQueryClearsWithoutRequest(t *testing.T) {
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			page := pageOf(1, domain.DocumentSummary{ID: "a"})
			page.ServerSuggestions = []string{"alt"}
			return page, nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(searchDelay)
	settle(t, s)
	require.Equal(t, 1, client.Calls())

	require.NoError(t, s.SetQuery("   "))
	mock.Add(searchDelay)

	var snap domain.SearchSnapshot
	require.Eventually(t, func() bool {
		snap = snapshot(t, s)
		return !snap.Busy && len(snap.Documents) == 0
	}, waitFor, pollEvery)
	assert.Zero(t, snap.TotalCount)
	assert.Zero(t, snap.QueryTimeMs)
	assert.Empty(t, snap.ServerSuggestions)
	assert.Empty(t, snap.QuickSuggestions)
	assert.Equal(t, domain.PhaseSettled, snap.Phase)
	assert.Equal(t, 1, client.Calls())
}

func TestSearchSession_EmptyQueryInvalidatesInFlight(t *testing.T) {
	release := make(chan struct{})
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			<-release
			return pageOf(1, domain.DocumentSummary{ID: "late"}), nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)

	require.NoError(t, s.SetQuery(""))
	mock.Add(searchDelay)
	settle(t, s)

	close(release)
	assert.Never(t, func() bool {
		return len(snapshot(t, s).Documents) > 0
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestSearchSession_ErrorClearsResultsKeepsFilters(t *testing.T) {
	var fail atomic.Bool
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			if fail.Load() {
				return nil, domain.ErrRemoteSearch
			}
			return pageOf(1, domain.DocumentSummary{ID: "a"}), nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(searchDelay)
	require.Len(t, settle(t, s).Documents, 1)

	fail.Store(true)

	require.NoError(t, s.SetMimeTypes([]string{"application/pdf"}))
	mock.Add(searchDelay)

	var snap domain.SearchSnapshot
	require.Eventually(t, func() bool {
		snap = snapshot(t, s)
		return snap.Err != nil && !snap.Busy
	}, waitFor, pollEvery)
	assert.ErrorIs(t, snap.Err, domain.ErrRemoteSearch)
	assert.Equal(t, "Search failed, please try again", snap.ErrorMessage())
	assert.Empty(t, snap.Documents)
	assert.Zero(t, snap.TotalCount)
	assert.Zero(t, snap.QueryTimeMs)
	assert.Equal(t, "invoice", snap.Filters.Query)
	assert.Equal(t, []string{"application/pdf"}, snap.Filters.MimeTypes)
	assert.Len(t, snap.QuickSuggestions, 3)
}

func TestSearchSession_ClientSideFiltersRefineWithoutRequest(t *testing.T) {
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			return pageOf(2,
				domain.DocumentSummary{ID: "scan", HasOCRText: true, SizeBytes: 4 * mb},
				domain.DocumentSummary{ID: "text", SizeBytes: 1 * mb},
			), nil
		},
	}
	s, mock := newTestSession(t, client, nil)
	require.NoError(t, s.SetQuery("report"))
	mock.Add(searchDelay)
	settle(t, s)

	require.NoError(t, s.SetOCRPresence(domain.OCRPresent))
	snap := snapshot(t, s)
	assert.Equal(t, []string{"scan"}, ids(snap.Documents))
	assert.Equal(t, 2, snap.TotalCount)
	assert.False(t, snap.Busy)

	require.NoError(t, s.SetOCRPresence(domain.OCRAll))
	require.NoError(t, s.SetSizeRange(domain.SizeRange{Min: 0, Max: 2}))
	assert.Equal(t, []string{"text"}, ids(snapshot(t, s).Documents))

	require.NoError(t, s.SetSizeRange(domain.DefaultSizeRange()))
	require.NoError(t, s.SetAgeRange(domain.DayRange{Min: 0, Max: 30}))
	assert.Empty(t, snapshot(t, s).Documents, "undated documents are excluded while the age filter is active")

	assert.Equal(t, 1, client.Calls())
}

func TestSearchSession_OCRAbsentRemovesScannedImage(t *testing.T) {
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			return pageOf(1, domain.DocumentSummary{
				ID:               "4b9e2c1a-0000-4000-8000-000000000001",
				OriginalFilename: "test1.png",
				MimeType:         "image/png",
				HasOCRText:       true,
			}), nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("Test 1"))
	mock.Add(searchDelay)
	snap := settle(t, s)
	require.Len(t, snap.Documents, 1)
	assert.Equal(t, "test1.png", snap.Documents[0].DisplayName())

	require.NoError(t, s.SetOCRPresence(domain.OCRAbsent))

	snap = snapshot(t, s)
	assert.Empty(t, snap.Documents)
	assert.Equal(t, 1, snap.TotalCount)
	assert.Equal(t, 1, client.Calls())
}

func TestSearchSession_ServerSideDimensionsTriggerSearch(t *testing.T) {
	client := &mockSearchClient{}
	s, mock := newTestSession(t, client, nil)
	require.NoError(t, s.SetQuery("report"))
	mock.Add(searchDelay)
	settle(t, s)

	steps := []func() error{
		func() error { return s.SetTags([]string{"legal"}) },
		func() error { return s.SetMimeTypes([]string{"text/plain"}) },
		func() error { return s.SetResultLimit(100) },
		func() error { return s.SetSearchMode(domain.SearchModeFuzzy) },
		func() error { return s.SetEnhanced(true) },
	}
	for i, step := range steps {
		require.NoError(t, step())
		assert.True(t, snapshot(t, s).Busy)
		mock.Add(searchDelay)
		require.Eventually(t, func() bool { return client.Calls() == i+2 }, waitFor, pollEvery)
		settle(t, s)
	}

	last := client.Requests()[len(steps)]
	assert.Equal(t, []string{"legal"}, last.Tags)
	assert.Equal(t, []string{"text/plain"}, last.MimeTypes)
	assert.Equal(t, 100, last.Limit)
	assert.Equal(t, domain.SearchModeFuzzy, last.SearchMode)
	assert.True(t, last.Enhanced)
}

func TestSearchSession_UnchangedValuesDoNotTrigger(t *testing.T) {
	client := &mockSearchClient{}
	s, _ := newTestSession(t, client, nil)

	require.NoError(t, s.SetTags(nil))
	require.NoError(t, s.SetResultLimit(domain.DefaultResultLimit))
	require.NoError(t, s.SetEnhanced(false))

	assert.False(t, snapshot(t, s).Busy)
}

func TestSearchSession_SetterValidation(t *testing.T) {
	s, _ := newTestSession(t, &mockSearchClient{}, nil)

	assert.ErrorIs(t, s.SetResultLimit(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetResultLimit(domain.MaxResultLimit+1), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetSearchMode("regex"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetOCRPresence("maybe"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetAgeRange(domain.DayRange{Min: 5, Max: 1}), domain.ErrInvalidRange)
	assert.ErrorIs(t, s.SetSizeRange(domain.SizeRange{Min: -1, Max: 1}), domain.ErrInvalidRange)
}

func TestSearchSession_QueryTooLongSettlesWithError(t *testing.T) {
	client := &mockSearchClient{}
	s, mock := newTestSession(t, client, nil)

	long := make([]rune, domain.MaxQueryLength+1)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, s.SetQuery(string(long)))
	mock.Add(searchDelay)

	snap := settle(t, s)
	assert.ErrorIs(t, snap.Err, domain.ErrInvalidInput)
	assert.Zero(t, client.Calls())
}

func TestSearchSession_WritesQueryToLocation(t *testing.T) {
	loc := memory.NewLocation("docsearch://search", "")
	s, _ := newTestSession(t, &mockSearchClient{}, loc)

	require.NoError(t, s.SetQuery(" invoice "))
	assert.Equal(t, "invoice", loc.Values().Get("q"))
	assert.Equal(t, "docsearch://search?q=invoice", snapshot(t, s).URL)

	require.NoError(t, s.SetQuery(""))
	assert.False(t, loc.Values().Has("q"))
}

func TestSearchSession_MountFromLocation(t *testing.T) {
	client := &mockSearchClient{}
	loc := memory.NewLocation("docsearch://search", "q=report")
	s, mock := newTestSession(t, client, loc)

	assert.Equal(t, "report", snapshot(t, s).Filters.Query)
	assert.Zero(t, loc.Writes())

	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)
	assert.Equal(t, "report", client.Requests()[0].Query)
}

func TestSearchSession_MountWithInitialQueryWritesLocation(t *testing.T) {
	loc := memory.NewLocation("docsearch://search", "")
	filters := domain.DefaultFilterState()
	filters.Query = "receipts"
	s := NewSearchSession(&mockSearchClient{}, loc, SessionOptions{
		Clock:    clock.NewMock(),
		Settings: domain.DefaultAppSettings(),
		Filters:  &filters,
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	assert.Equal(t, "receipts", loc.Values().Get("q"))
	assert.True(t, snapshot(t, s).Busy)
}

func TestSearchSession_LocationChanged(t *testing.T) {
	client := &mockSearchClient{}
	loc := memory.NewLocation("docsearch://search", "")
	s, mock := newTestSession(t, client, loc)

	require.NoError(t, s.SetQuery("invoice"))
	writes := loc.Writes()

	require.NoError(t, s.LocationChanged())
	assert.Equal(t, "invoice", snapshot(t, s).Filters.Query)

	require.NoError(t, loc.Navigate("q=receipt"))
	require.NoError(t, s.LocationChanged())
	assert.Equal(t, "receipt", snapshot(t, s).Filters.Query)
	assert.Equal(t, writes, loc.Writes())

	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)
	assert.Equal(t, "receipt", client.Requests()[0].Query)
}

func TestSearchSession_ApplySettings(t *testing.T) {
	client := &mockSearchClient{}
	s, mock := newTestSession(t, client, nil)

	settings := domain.DefaultAppSettings()
	settings.Timing.SearchDebounce = 50 * time.Millisecond
	settings.Search.SnippetLength = 80
	require.NoError(t, s.ApplySettings(settings))

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(50 * time.Millisecond)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)
	assert.Equal(t, 80, client.Requests()[0].SnippetLength)

	bad := domain.DefaultAppSettings()
	bad.Timing.SearchDebounce = 0
	assert.ErrorIs(t, s.ApplySettings(bad), domain.ErrInvalidInput)
}

func TestSearchSession_UpdatesPublishLatestAndCloseOnStop(t *testing.T) {
	client := &mockSearchClient{}
	mock := clock.NewMock()
	s := NewSearchSession(client, nil, SessionOptions{Clock: mock, Settings: domain.DefaultAppSettings()})
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.SetQuery("a"))
	require.NoError(t, s.SetQuery("ab"))

	select {
	case snap := <-s.Updates():
		assert.Equal(t, "ab", snap.Filters.Query)
	case <-time.After(waitFor):
		t.Fatal("no snapshot published")
	}

	s.Close()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-s.Updates():
			return !ok
		default:
			return false
		}
	}, waitFor, pollEvery)
	assert.ErrorIs(t, s.SetQuery("abc"), domain.ErrSessionClosed)
}

func TestSearchSession_ContextCancelStops(t *testing.T) {
	s := NewSearchSession(&mockSearchClient{}, nil, SessionOptions{
		Clock:    clock.NewMock(),
		Settings: domain.DefaultAppSettings(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()

	require.Eventually(t, func() bool {
		return s.SetQuery("x") != nil
	}, waitFor, pollEvery)
	s.Close()
}

func TestSearchSession_ProgressTracksRequest(t *testing.T) {
	release := make(chan struct{})
	client := &mockSearchClient{
		SearchFunc: func(_ context.Context, _ domain.SearchRequest) (*domain.SearchResultPage, error) {
			<-release
			return pageOf(0), nil
		},
	}
	s, mock := newTestSession(t, client, nil)

	require.NoError(t, s.SetQuery("invoice"))
	mock.Add(searchDelay)
	require.Eventually(t, func() bool { return client.Calls() == 1 }, waitFor, pollEvery)

	mock.Add(200 * time.Millisecond)
	require.Eventually(t, func() bool {
		p := snapshot(t, s).Progress
		return p > 0 && p < 100
	}, waitFor, pollEvery)

	close(release)
	require.Eventually(t, func() bool { return snapshot(t, s).Progress == 100 }, waitFor, pollEvery)
	mock.Add(500 * time.Millisecond)
	require.Eventually(t, func() bool { return snapshot(t, s).Progress == 0 }, waitFor, pollEvery)
}

func TestSearchSession_ApplySettings_RejectsNonPositiveProgressTiming(t *testing.T) {
	s, _ := newTestSession(t, &mockSearchClient{}, nil)

	settings := domain.DefaultAppSettings()
	settings.Timing.ProgressInterval = 0

	assert.ErrorIs(t, s.ApplySettings(settings), domain.ErrInvalidInput)
}

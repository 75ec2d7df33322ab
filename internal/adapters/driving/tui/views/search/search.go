// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/components/progress"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driving"
)

// View represents the search view: query input, filter summary, result list,
// progress indicator and status bar. All state comes from the search
// session's published snapshots; the view only forwards edits.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar
	indicator *progress.Indicator

	session       driving.SearchSession
	searchService driving.SearchService
	actionService driving.DocumentActionService
	downloadDir   string
	ctx           context.Context

	snapshot domain.SearchSnapshot
	facets   *domain.Facets

	width      int
	height     int
	ready      bool
	focusInput bool // true = input mode (typing), false = results mode (navigating)
	actionMenu *ActionMenu
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SearchSession,
	searchService driving.SearchService,
	actionService driving.DocumentActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		indicator:     progress.NewIndicator(s),
		session:       session,
		searchService: searchService,
		actionService: actionService,
		downloadDir:   ".",
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithDownloadDir sets where downloaded documents are saved.
func (v *View) WithDownloadDir(dir string) *View {
	v.downloadDir = dir
	return v
}

// Init seeds the view from the session's current state and starts listening
// for snapshots and loading facets.
func (v *View) Init() tea.Cmd {
	if v.session == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoSearchSession} }
	}

	if snap, err := v.session.Snapshot(); err == nil {
		v.apply(snap)
		v.input.SetValue(snap.Filters.Query)
	}

	return tea.Batch(v.input.Init(), v.indicator.Init(), v.listen(), v.loadFacets())
}

// listen waits for the next published snapshot.
func (v *View) listen() tea.Cmd {
	updates := v.session.Updates()
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return messages.SessionClosed{}
		}
		return messages.SnapshotReceived{Snapshot: snap}
	}
}

// loadFacets fetches the filter hints shown under the input.
func (v *View) loadFacets() tea.Cmd {
	if v.searchService == nil {
		return nil
	}
	svc, ctx := v.searchService, v.ctx
	return func() tea.Msg {
		facets, err := svc.Facets(ctx)
		return messages.FacetsLoaded{Facets: facets, Err: err}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SnapshotReceived:
		v.apply(msg.Snapshot)
		return v, v.listen()

	case messages.SessionClosed:
		return v, nil

	case messages.FacetsLoaded:
		if msg.Err == nil {
			v.facets = msg.Facets
		}
		return v, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			v.statusbar.SetNotice("Action failed: " + msg.Err.Error())
		} else {
			v.statusbar.SetNotice(msg.Message)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetNotice(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.indicator, cmd = v.indicator.Update(msg)
		return v, cmd
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

// apply renders a session snapshot. The input keeps the user's text while it
// has focus because snapshots trail keystrokes.
func (v *View) apply(snap domain.SearchSnapshot) {
	v.snapshot = snap
	v.list.SetDocuments(snap.Documents)
	v.statusbar.SetSnapshot(snap)
	v.indicator.Set(snap.Busy, snap.Progress)
	if !v.input.Focused() && v.input.Value() != snap.Filters.Query {
		v.input.SetValue(snap.Filters.Query)
	}
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.actionMenu != nil && v.actionMenu.visible {
		return v.handleActionMenuKey(msg)
	}

	v.statusbar.SetNotice("")

	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

// handleInputKey edits the query. Every edit is forwarded to the session,
// which debounces the search.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if v.input.Value() != "" {
			v.input.SetValue("")
			v.setQuery("")
		}
		return v, nil
	case key.Matches(msg, v.keymap.Results):
		v.focusResults()
		return v, nil
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if changed {
		v.setQuery(v.input.Value())
	}
	return v, cmd
}

// handleResultsKey navigates results and adjusts filters.
//
//nolint:gocyclo // flat key dispatch
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	f := v.currentFilters()

	switch {
	case key.Matches(msg, v.keymap.Back), key.Matches(msg, v.keymap.Edit):
		v.focusQuery()
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.Actions):
		v.openActionMenu()
	case key.Matches(msg, v.keymap.ToggleOCR):
		v.edit(func(s driving.SearchSession) error { return s.SetOCRPresence(f.OCRPresence.Next()) })
	case key.Matches(msg, v.keymap.CycleMode):
		v.edit(func(s driving.SearchSession) error { return s.SetSearchMode(f.SearchMode.Next()) })
	case key.Matches(msg, v.keymap.ToggleEnhanced):
		v.edit(func(s driving.SearchSession) error { return s.SetEnhanced(!f.UseEnhancedBackend) })
	case key.Matches(msg, v.keymap.CycleAge):
		v.edit(func(s driving.SearchSession) error { return s.SetAgeRange(nextOf(agePresets, f.AgeRangeDays)) })
	case key.Matches(msg, v.keymap.CycleSize):
		v.edit(func(s driving.SearchSession) error { return s.SetSizeRange(nextOf(sizePresets, f.SizeRangeMB)) })
	case key.Matches(msg, v.keymap.CycleLimit):
		v.edit(func(s driving.SearchSession) error { return s.SetResultLimit(nextOf(limitPresets, f.ResultLimit)) })
	case key.Matches(msg, v.keymap.CycleTag):
		if v.facets != nil {
			tags := nextChoice(v.facets.Tags, f.Tags)
			v.edit(func(s driving.SearchSession) error { return s.SetTags(tags) })
		}
	case key.Matches(msg, v.keymap.CycleType):
		if v.facets != nil {
			types := nextChoice(v.facets.MimeTypes, f.MimeTypes)
			v.edit(func(s driving.SearchSession) error { return s.SetMimeTypes(types) })
		}
	case key.Matches(msg, v.keymap.Suggestion):
		v.applySuggestion(int(msg.Runes[0] - '1'))
	}
	return v, nil
}

// currentFilters reads the filters from the session rather than the last
// rendered snapshot, which may trail a preceding key press.
func (v *View) currentFilters() domain.FilterState {
	if v.session != nil {
		if snap, err := v.session.Snapshot(); err == nil {
			return snap.Filters
		}
	}
	return v.snapshot.Filters
}

// applySuggestion replaces the query with the numbered suggestion.
func (v *View) applySuggestion(index int) {
	options := suggestions(v.snapshot)
	if index < 0 || index >= len(options) {
		return
	}
	v.input.SetValue(options[index])
	v.setQuery(options[index])
}

func (v *View) setQuery(query string) {
	v.edit(func(s driving.SearchSession) error { return s.SetQuery(query) })
}

// edit applies a mutation to the session and shows a rejection in the
// status bar.
func (v *View) edit(fn func(driving.SearchSession) error) {
	if v.session == nil {
		return
	}
	if err := fn(v.session); err != nil {
		v.statusbar.SetNotice(err.Error())
	}
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetResultsMode(true)
}

func (v *View) focusQuery() {
	v.focusInput = true
	v.statusbar.SetResultsMode(false)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 16)

	header := v.styles.Title.Render("docsearch")
	if v.snapshot.URL != "" {
		header += "  " + v.styles.Muted.Render(v.snapshot.URL)
	}
	sections = append(sections, header, "", v.input.View())

	sections = append(sections, v.styles.Filter.Render(strings.Join(filterChips(v.snapshot.Filters), "  ")))

	if options := suggestions(v.snapshot); len(options) > 0 {
		sections = append(sections, v.renderSuggestions(options))
	}

	if v.facets != nil {
		for _, hint := range []string{
			facetHint("Tags", v.facets.Tags),
			facetHint("Types", v.facets.MimeTypes),
		} {
			if hint != "" {
				sections = append(sections, v.styles.Muted.Render(hint))
			}
		}
	}

	sections = append(sections, v.indicator.View(), v.list.View())

	if v.actionMenu != nil && v.actionMenu.visible {
		sections = append(sections, "", v.renderActionMenu())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderSuggestions(options []string) string {
	parts := make([]string, 0, 3)
	for i, s := range options {
		if i == 3 {
			break
		}
		parts = append(parts, v.styles.Subtitle.Render(string(rune('1'+i)))+" "+s)
	}
	return v.styles.Muted.Render("Try: ") + strings.Join(parts, "  ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12) // header, input, filters, hints, status
	v.statusbar.SetWidth(width)
	v.indicator.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input text.
func (v *View) Query() string {
	return v.input.Value()
}

// Snapshot returns the last rendered session snapshot.
func (v *View) Snapshot() domain.SearchSnapshot {
	return v.snapshot
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	return v.list.SelectedDocument()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

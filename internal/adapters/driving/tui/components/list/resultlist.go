// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// ResultList displays documents in a navigable list.
type ResultList struct {
	documents []domain.DocumentSummary
	selected  int
	styles    *styles.Styles
	width     int
	height    int
	now       func() time.Time
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
		now:    time.Now,
	}
}

// WithNow overrides the clock used for relative document ages.
func (r *ResultList) WithNow(now func() time.Time) *ResultList {
	r.now = now
	return r
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.documents) == 0 {
		return r.styles.Muted.Render("No results")
	}

	// Each document takes a title line and a snippet line.
	visible := max((r.height-1)/2, 1)

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.documents))

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderDocument(i, &r.documents[i]))
	}
	return strings.Join(lines, "\n")
}

// renderDocument formats one document: name, metadata and first snippet.
func (r *ResultList) renderDocument(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	meta := r.metadata(doc)
	maxTitle := max(r.width-lipgloss.Width(meta)-6, 10)
	title := truncate(doc.DisplayName(), maxTitle)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxTitle, title)) + "  " + meta
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxTitle, title)) + "  " + meta
	}

	if len(doc.Snippets) == 0 {
		return titleLine
	}
	return titleLine + "\n    " + r.renderSnippet(doc.Snippets[0], max(r.width-6, 20))
}

// metadata renders the size, age and OCR badge of a document.
func (r *ResultList) metadata(doc *domain.DocumentSummary) string {
	parts := []string{humanize.IBytes(uint64(max(doc.SizeBytes, 0)))}
	if !doc.CreatedAt.IsZero() {
		parts = append(parts, humanize.RelTime(doc.CreatedAt, r.now(), "ago", "from now"))
	}
	meta := r.styles.Muted.Render(strings.Join(parts, " · "))
	if doc.HasOCRText {
		meta += " " + r.styles.Badge.Render("OCR")
	}
	return meta
}

// renderSnippet renders snippet text with its highlight ranges emphasised.
// Ranges are rune offsets into the snippet; out-of-bounds ranges are clamped.
func (r *ResultList) renderSnippet(s domain.Snippet, limit int) string {
	text := []rune(strings.ReplaceAll(s.Text, "\n", " "))
	if len(text) > limit {
		text = append(text[:limit-3], []rune("...")...)
	}

	var b strings.Builder
	pos := 0
	for _, h := range s.Highlights {
		start := min(max(h.Start, pos), len(text))
		end := min(max(h.End, start), len(text))
		if start == end {
			continue
		}
		b.WriteString(r.styles.Muted.Render(string(text[pos:start])))
		b.WriteString(r.styles.Highlight.Render(string(text[start:end])))
		pos = end
	}
	b.WriteString(r.styles.Muted.Render(string(text[pos:])))
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// SetDocuments replaces the listed documents. The selection is kept when the
// previously selected document is still present.
func (r *ResultList) SetDocuments(docs []domain.DocumentSummary) {
	var selectedID string
	if doc := r.SelectedDocument(); doc != nil {
		selectedID = doc.ID
	}

	r.documents = docs
	r.selected = 0
	for i := range docs {
		if docs[i].ID == selectedID {
			r.selected = i
			break
		}
	}
}

// Documents returns the listed documents.
func (r *ResultList) Documents() []domain.DocumentSummary {
	return r.documents
}

// Selected returns the index of the selected document.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedDocument returns the selected document, or nil if none.
func (r *ResultList) SelectedDocument() *domain.DocumentSummary {
	if r.selected < 0 || r.selected >= len(r.documents) {
		return nil
	}
	return &r.documents[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.documents)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of listed documents.
func (r *ResultList) Count() int {
	return len(r.documents)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.documents) == 0
}

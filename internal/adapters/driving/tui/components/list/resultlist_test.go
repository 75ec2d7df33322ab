package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleDocuments() []domain.DocumentSummary {
	return []domain.DocumentSummary{
		{
			ID:               "a",
			OriginalFilename: "test1.png",
			SizeBytes:        2 * 1024 * 1024,
			CreatedAt:        testNow.Add(-72 * time.Hour),
			HasOCRText:       true,
			Snippets: []domain.Snippet{{
				Text:       "this is Test 1",
				Highlights: []domain.HighlightRange{{Start: 8, End: 14}},
			}},
		},
		{ID: "b", Filename: "stored-b.pdf", SizeBytes: 1536},
		{ID: "c", OriginalFilename: "report.docx"},
	}
}

func newTestList() *ResultList {
	return NewResultList(nil).WithNow(func() time.Time { return testNow })
}

func TestNewResultList(t *testing.T) {
	list := NewResultList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
	assert.True(t, list.IsEmpty())
	assert.Nil(t, list.SelectedDocument())
}

func TestResultList_ViewEmpty(t *testing.T) {
	assert.Contains(t, newTestList().View(), "No results")
}

func TestResultList_ViewRendersMetadata(t *testing.T) {
	list := newTestList()
	list.SetDocuments(sampleDocuments())

	view := list.View()

	assert.Contains(t, view, "test1.png")
	assert.Contains(t, view, "2.0 MiB")
	assert.Contains(t, view, "3 days ago")
	assert.Contains(t, view, "OCR")
	assert.Contains(t, view, "stored-b.pdf")
	assert.Contains(t, view, "1.5 KiB")
}

func TestResultList_RenderSnippet_Highlights(t *testing.T) {
	list := newTestList()

	out := list.renderSnippet(domain.Snippet{
		Text:       "this is Test 1",
		Highlights: []domain.HighlightRange{{Start: 8, End: 14}},
	}, 80)

	assert.Contains(t, out, "this is")
	assert.Contains(t, out, "Test 1")
}

func TestResultList_RenderSnippet_ClampsRanges(t *testing.T) {
	list := newTestList()

	assert.NotPanics(t, func() {
		list.renderSnippet(domain.Snippet{
			Text:       "short",
			Highlights: []domain.HighlightRange{{Start: 3, End: 99}, {Start: -4, End: 2}, {Start: 50, End: 60}},
		}, 80)
	})
}

func TestResultList_Navigation(t *testing.T) {
	list := newTestList()
	list.SetDocuments(sampleDocuments())

	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	list.MoveDown()
	list.MoveDown()
	list.MoveDown()
	assert.Equal(t, 2, list.Selected())
	assert.Equal(t, "c", list.SelectedDocument().ID)
}

func TestResultList_SetDocuments_KeepsSelection(t *testing.T) {
	list := newTestList()
	docs := sampleDocuments()
	list.SetDocuments(docs)
	list.MoveDown()

	list.SetDocuments([]domain.DocumentSummary{docs[2], docs[1]})

	assert.Equal(t, 1, list.Selected())
	assert.Equal(t, "b", list.SelectedDocument().ID)
}

func TestResultList_SetDocuments_ResetsWhenGone(t *testing.T) {
	list := newTestList()
	docs := sampleDocuments()
	list.SetDocuments(docs)
	list.MoveDown()

	list.SetDocuments([]domain.DocumentSummary{docs[0]})

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_ScrollsToSelection(t *testing.T) {
	list := newTestList()
	list.SetDimensions(80, 3)
	list.SetDocuments(sampleDocuments())

	list.MoveDown()
	list.MoveDown()

	view := list.View()
	assert.Contains(t, view, "report.docx")
	assert.NotContains(t, view, "test1.png")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

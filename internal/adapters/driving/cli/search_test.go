package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

func testOutcome() *domain.SearchOutcome {
	return &domain.SearchOutcome{
		Request: &domain.SearchRequest{Query: "invoice"},
		Documents: []domain.DocumentSummary{
			{
				ID:               "4b9e2c1a-0000-4000-8000-000000000001",
				Filename:         "stored.pdf",
				OriginalFilename: "invoice-march.pdf",
				MimeType:         "application/pdf",
				SizeBytes:        2 * 1024 * 1024,
				HasOCRText:       true,
				Tags:             []string{"finance"},
				Snippets:         []domain.Snippet{{Text: "total   invoice\namount"}},
			},
		},
		TotalCount:        120,
		QueryTimeMs:       12,
		ServerSuggestions: []string{"invoices"},
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "server's count")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand(t, "search", "invoice")

	assert.ErrorIs(t, err, domain.ErrNoServer)
}

func TestSearchCmd_HasFlags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)

	for _, name := range []string{"tag", "mime", "mode", "enhanced", "ocr", "min-age", "max-age", "min-size", "max-size", "json"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), name)
	}
}

func TestSearchCmd_TableShowsBothCounts(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.Outcome = testOutcome()

	out, err := executeCommand(t, "search", "invoice")

	require.NoError(t, err)
	assert.Contains(t, out, "1 shown of 120 results (12ms)")
	assert.Contains(t, out, "[1] invoice-march.pdf")
	assert.Contains(t, out, "application/pdf · 2.0 MiB · OCR · tags: finance")
	assert.Contains(t, out, "total invoice amount")
	assert.Contains(t, out, "id: 4b9e2c1a-0000-4000-8000-000000000001")
	assert.Contains(t, out, "Did you mean: invoices")
}

func TestSearchCmd_JoinsArgs(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "search", "march", "invoice")

	require.NoError(t, err)
	assert.Equal(t, "march invoice", ts.search.Got.Query)
}

func TestSearchCmd_DefaultsFromSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.Settings.Search.Limit = 40
	ts.settings.Settings.Search.Mode = domain.SearchModeFuzzy
	ts.settings.Settings.Server.Enhanced = true

	_, err := executeCommand(t, "search", "invoice")

	require.NoError(t, err)
	got := ts.search.Got
	assert.Equal(t, 40, got.ResultLimit)
	assert.Equal(t, domain.SearchModeFuzzy, got.SearchMode)
	assert.True(t, got.UseEnhancedBackend)
	assert.False(t, got.HasRefinement())
}

func TestSearchCmd_FlagsMapToFilters(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.Settings.Server.Enhanced = true

	_, err := executeCommand(t, "search", "invoice",
		"--tag", "legal,finance", "--tag", "legal",
		"--mime", "application/pdf",
		"-n", "50", "--mode", "phrase", "--enhanced=false",
		"--ocr", "absent", "--max-age", "30", "--min-size", "0.5")

	require.NoError(t, err)
	got := ts.search.Got
	assert.Equal(t, []string{"finance", "legal"}, got.Tags)
	assert.Equal(t, []string{"application/pdf"}, got.MimeTypes)
	assert.Equal(t, 50, got.ResultLimit)
	assert.Equal(t, domain.SearchModePhrase, got.SearchMode)
	assert.False(t, got.UseEnhancedBackend)
	assert.Equal(t, domain.OCRAbsent, got.OCRPresence)
	assert.Equal(t, domain.DayRange{Min: 0, Max: 30}, got.AgeRangeDays)
	assert.Equal(t, domain.SizeRange{Min: 0.5, Max: domain.DefaultMaxSizeMB}, got.SizeRangeMB)
}

func TestSearchCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.Outcome = testOutcome()

	out, err := executeCommand(t, "search", "invoice", "--json")

	require.NoError(t, err)
	var decoded searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "invoice", decoded.Query)
	assert.Equal(t, 1, decoded.Count)
	assert.Equal(t, 120, decoded.TotalCount)
	require.Len(t, decoded.Documents, 1)
	assert.Equal(t, "invoice-march.pdf", decoded.Documents[0].Filename)
	assert.NotContains(t, out, "created_at")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_AllFilteredLocally(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.Outcome = &domain.SearchOutcome{TotalCount: 1500}

	out, err := executeCommand(t, "search", "invoice", "--ocr", "present")

	require.NoError(t, err)
	assert.Contains(t, out, "No results match the local filters (1,500 on the server).")
}

func TestSearchCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.Err = domain.ErrUnauthorized

	_, err := executeCommand(t, "search", "invoice")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_ModeIsValidatedByService(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.Err = errors.New("invalid input: search mode \"x\"")

	_, err := executeCommand(t, "search", "invoice", "--mode", "x")

	require.Error(t, err)
	assert.Equal(t, domain.SearchMode("x"), ts.search.Got.SearchMode)
}

func TestResultSummary(t *testing.T) {
	assert.Equal(t, "25 results", resultSummary(25, 25))
	assert.Equal(t, "3 shown of 1,200 results", resultSummary(3, 1200))
}

func TestDocumentMeta(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	doc := domain.DocumentSummary{
		MimeType:  "image/png",
		SizeBytes: 1536,
		CreatedAt: now.Add(-3 * 24 * time.Hour),
	}

	assert.Equal(t, "image/png · 1.5 KiB · 3 days ago", documentMeta(doc, now))
}

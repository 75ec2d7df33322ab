package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

var (
	searchTags     []string
	searchMime     []string
	searchLimit    int
	searchMode     string
	searchEnhanced bool
	searchOCR      string
	searchMinAge   int
	searchMaxAge   int
	searchMinSize  float64
	searchMaxSize  float64
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search documents",
	Long: `Searches the documents of the configured server.

Tags, MIME types, limit, mode and backend are sent to the server. Age, size
and OCR filters narrow the returned page locally, so the reported total is
the server's count and can exceed the number of results shown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.StringSliceVarP(&searchTags, "tag", "t", nil, "only documents carrying any of these tags")
	flags.StringSliceVar(&searchMime, "mime", nil, "only documents of these MIME types")
	flags.IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	flags.StringVar(&searchMode, "mode", "", "search mode: simple, phrase, fuzzy or boolean")
	flags.BoolVar(&searchEnhanced, "enhanced", false, "use the enhanced search backend")
	flags.StringVar(&searchOCR, "ocr", string(domain.OCRAll), "OCR text: all, present or absent")
	flags.IntVar(&searchMinAge, "min-age", 0, "minimum document age in days")
	flags.IntVar(&searchMaxAge, "max-age", domain.DefaultMaxAgeDays, "maximum document age in days")
	flags.Float64Var(&searchMinSize, "min-size", 0, "minimum file size in MB")
	flags.Float64Var(&searchMaxSize, "max-size", domain.DefaultMaxSizeMB, "maximum file size in MB")
	flags.BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	service, err := requireSearch()
	if err != nil {
		return err
	}

	filters := searchFilters(cmd, strings.Join(args, " "))

	outcome, err := service.Search(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, outcome)
	}

	return outputSearchTable(cmd, outcome, time.Now())
}

// searchFilters builds the filter state from flags. Unset server-side flags
// fall back to the configured defaults.
func searchFilters(cmd *cobra.Command, query string) domain.FilterState {
	settings := currentSettings()

	f := domain.DefaultFilterState()
	f.Query = query
	f.Tags = domain.NormalizeSet(searchTags)
	f.MimeTypes = domain.NormalizeSet(searchMime)
	f.ResultLimit = settings.Search.Limit
	f.SearchMode = settings.Search.Mode
	f.UseEnhancedBackend = settings.Server.Enhanced
	f.OCRPresence = domain.OCRPresence(searchOCR)
	f.AgeRangeDays = domain.DayRange{Min: searchMinAge, Max: searchMaxAge}
	f.SizeRangeMB = domain.SizeRange{Min: searchMinSize, Max: searchMaxSize}

	if searchLimit > 0 {
		f.ResultLimit = searchLimit
	}
	if searchMode != "" {
		f.SearchMode = domain.SearchMode(searchMode)
	}
	if cmd.Flags().Changed("enhanced") {
		f.UseEnhancedBackend = searchEnhanced
	}
	return f
}

// searchResultJSON is the JSON shape of a search.
type searchResultJSON struct {
	Query       string         `json:"query"`
	Count       int            `json:"count"`
	TotalCount  int            `json:"total_count"`
	QueryTimeMs int64          `json:"query_time_ms"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Documents   []documentJSON `json:"documents"`
}

type documentJSON struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	HasOCRText bool      `json:"has_ocr_text"`
	Tags       []string  `json:"tags,omitempty"`
	Snippets   []string  `json:"snippets,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, outcome *domain.SearchOutcome) error {
	out := searchResultJSON{
		Count:       len(outcome.Documents),
		TotalCount:  outcome.TotalCount,
		QueryTimeMs: outcome.QueryTimeMs,
		Suggestions: outcome.ServerSuggestions,
		Documents:   make([]documentJSON, len(outcome.Documents)),
	}
	if outcome.Request != nil {
		out.Query = outcome.Request.Query
	}
	for i, doc := range outcome.Documents {
		out.Documents[i] = documentJSON{
			ID:         doc.ID,
			Filename:   doc.DisplayName(),
			MimeType:   doc.MimeType,
			SizeBytes:  doc.SizeBytes,
			CreatedAt:  doc.CreatedAt,
			HasOCRText: doc.HasOCRText,
			Tags:       doc.Tags,
		}
		for _, snippet := range doc.Snippets {
			out.Documents[i].Snippets = append(out.Documents[i].Snippets, snippet.Text)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, outcome *domain.SearchOutcome, now time.Time) error {
	if len(outcome.Documents) == 0 {
		if outcome.TotalCount > 0 {
			cmd.Printf("No results match the local filters (%s on the server).\n",
				humanize.Comma(int64(outcome.TotalCount)))
		} else {
			cmd.Println("No results found.")
		}
		printSuggestions(cmd, outcome.ServerSuggestions)
		return nil
	}

	cmd.Printf("%s (%dms):\n", resultSummary(len(outcome.Documents), outcome.TotalCount), outcome.QueryTimeMs)
	cmd.Println()
	for i := range outcome.Documents {
		doc := outcome.Documents[i]
		cmd.Printf("  [%d] %s\n", i+1, doc.DisplayName())
		cmd.Printf("      %s\n", documentMeta(doc, now))
		if len(doc.Snippets) > 0 {
			cmd.Printf("      %s\n", strings.Join(strings.Fields(doc.Snippets[0].Text), " "))
		}
		cmd.Printf("      id: %s\n", doc.ID)
		cmd.Println()
	}

	printSuggestions(cmd, outcome.ServerSuggestions)
	return nil
}

// resultSummary reports both counts when local filters narrowed the page.
func resultSummary(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%s results", humanize.Comma(int64(total)))
	}
	return fmt.Sprintf("%d shown of %s results", shown, humanize.Comma(int64(total)))
}

func documentMeta(doc domain.DocumentSummary, now time.Time) string {
	parts := []string{doc.MimeType, humanize.IBytes(uint64(max(doc.SizeBytes, 0)))}
	if !doc.CreatedAt.IsZero() {
		parts = append(parts, humanize.RelTime(doc.CreatedAt, now, "ago", "from now"))
	}
	if doc.HasOCRText {
		parts = append(parts, "OCR")
	}
	if len(doc.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(doc.Tags, ", "))
	}
	return strings.Join(parts, " · ")
}

func printSuggestions(cmd *cobra.Command, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	cmd.Printf("Did you mean: %s\n", strings.Join(suggestions, ", "))
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

var facetsJSON bool

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "List available tags and MIME types",
	Long:  `Lists the tag and MIME type filter values known to the server with their document counts.`,
	Args:  cobra.NoArgs,
	RunE:  runFacets,
}

func init() {
	facetsCmd.Flags().BoolVar(&facetsJSON, "json", false, "output facets as JSON")
	rootCmd.AddCommand(facetsCmd)
}

func runFacets(cmd *cobra.Command, _ []string) error {
	service, err := requireSearch()
	if err != nil {
		return err
	}

	facets, err := service.Facets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list facets: %w", err)
	}

	if facetsJSON {
		data, err := json.MarshalIndent(map[string][]domain.FacetItem{
			"mime_types": facets.MimeTypes,
			"tags":       facets.Tags,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal facets: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printFacets(cmd, "MIME types", facets.MimeTypes)
	cmd.Println()
	printFacets(cmd, "Tags", facets.Tags)
	return nil
}

func printFacets(cmd *cobra.Command, title string, items []domain.FacetItem) {
	cmd.Printf("[%s]\n", title)
	if len(items) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, item := range items {
		cmd.Printf("  %-40s %8s\n", item.Value, humanize.Comma(item.Count))
	}
}

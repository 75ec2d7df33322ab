package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// maxFacetChoices bounds how many facet values the tag and type keys cycle.
const maxFacetChoices = 5

// Preset steps cycled by the filter keys. The first entry is the default,
// which applies no filtering.
var (
	agePresets = []domain.DayRange{
		domain.DefaultAgeRange(),
		{Min: 0, Max: 7},
		{Min: 0, Max: 30},
		{Min: 0, Max: 90},
	}

	sizePresets = []domain.SizeRange{
		domain.DefaultSizeRange(),
		{Min: 0, Max: 1},
		{Min: 0, Max: 10},
		{Min: 10, Max: domain.DefaultMaxSizeMB},
	}

	limitPresets = []int{domain.DefaultResultLimit, 50, 100}
)

// nextOf returns the element after current in steps, wrapping around.
// A current value not in steps yields the first step.
func nextOf[T comparable](steps []T, current T) T {
	i := slices.Index(steps, current)
	return steps[(i+1)%len(steps)]
}

// facetChoices returns the single-value filters a facet list offers, led by
// the empty (no filter) choice.
func facetChoices(items []domain.FacetItem) [][]string {
	choices := [][]string{nil}
	for i, item := range items {
		if i == maxFacetChoices {
			break
		}
		choices = append(choices, []string{item.Value})
	}
	return choices
}

// nextChoice returns the facet choice after current. A multi-value or
// unknown current selection restarts at the first facet value.
func nextChoice(items []domain.FacetItem, current []string) []string {
	choices := facetChoices(items)
	for i, c := range choices {
		if slices.Equal(c, current) {
			return choices[(i+1)%len(choices)]
		}
	}
	if len(choices) > 1 {
		return choices[1]
	}
	return nil
}

// filterChips describes the active filters, one short label each.
func filterChips(f domain.FilterState) []string {
	chips := []string{"mode:" + f.SearchMode.String()}
	if f.UseEnhancedBackend {
		chips = append(chips, "enhanced")
	}
	if f.ResultLimit != domain.DefaultResultLimit {
		chips = append(chips, fmt.Sprintf("limit:%d", f.ResultLimit))
	}
	if len(f.Tags) > 0 {
		chips = append(chips, "tags:"+strings.Join(f.Tags, ","))
	}
	if len(f.MimeTypes) > 0 {
		chips = append(chips, "type:"+strings.Join(f.MimeTypes, ","))
	}
	if !f.AgeRangeDays.IsDefault() {
		chips = append(chips, fmt.Sprintf("age:%d-%dd", f.AgeRangeDays.Min, f.AgeRangeDays.Max))
	}
	if !f.SizeRangeMB.IsDefault() {
		chips = append(chips, fmt.Sprintf("size:%s-%sMB",
			humanize.FtoaWithDigits(f.SizeRangeMB.Min, 1), humanize.FtoaWithDigits(f.SizeRangeMB.Max, 1)))
	}
	if f.OCRPresence != domain.OCRAll {
		chips = append(chips, "ocr:"+f.OCRPresence.String())
	}
	return chips
}

// facetHint summarises the top facet values with their counts.
func facetHint(label string, items []domain.FacetItem) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, maxFacetChoices)
	for i, item := range items {
		if i == maxFacetChoices {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", item.Value, humanize.Comma(item.Count)))
	}
	return label + ": " + strings.Join(parts, " ")
}

// suggestions lists the quick suggestions followed by the server's, without
// duplicates or the current query.
func suggestions(snap domain.SearchSnapshot) []string {
	var out []string
	for _, s := range append(slices.Clone(snap.QuickSuggestions), snap.ServerSuggestions...) {
		if s == "" || s == snap.Filters.Query || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

package services

import (
	"strings"
	"unicode/utf8"
)

// Quick suggestion tokens.
const (
	// TagPrefix scopes a query to tags.
	TagPrefix = "tag:"

	quoteChar    = `"`
	wildcardChar = "*"

	minSuggestLength = 2
	maxSuggestions   = 3
)

// QuickSuggestions derives syntactic rewrites of the raw query, in the fixed
// order phrase, tag, wildcard. The query is used as typed, so surrounding
// whitespace counts toward the two-character minimum.
func QuickSuggestions(raw string) []string {
	if utf8.RuneCountInString(raw) < minSuggestLength {
		return nil
	}

	suggestions := make([]string, 0, maxSuggestions)
	if !strings.Contains(raw, quoteChar) {
		suggestions = append(suggestions, quoteChar+raw+quoteChar)
	}
	if !strings.HasPrefix(raw, TagPrefix) {
		suggestions = append(suggestions, TagPrefix+raw)
	}
	if !strings.Contains(raw, wildcardChar) {
		suggestions = append(suggestions, raw+wildcardChar)
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
	assert.Contains(t, km.Quit.Keys(), "q")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
}

func TestDefaultKeyMap_FilterBindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"ocr", km.ToggleOCR, "o"},
		{"mode", km.CycleMode, "m"},
		{"enhanced", km.ToggleEnhanced, "e"},
		{"age", km.CycleAge, "a"},
		{"size", km.CycleSize, "s"},
		{"limit", km.CycleLimit, "l"},
		{"tag", km.CycleTag, "t"},
		{"type", km.CycleType, "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Matches(tt.key, tt.binding))
		})
	}
}

func TestDefaultKeyMap_SuggestionDigits(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"1", "2", "3"}, km.Suggestion.Keys())
}

func TestDefaultKeyMap_FilterKeysAreUnique(t *testing.T) {
	km := DefaultKeyMap()

	seen := map[string]string{}
	for _, b := range []key.Binding{
		km.ToggleOCR, km.CycleMode, km.ToggleEnhanced, km.CycleAge,
		km.CycleSize, km.CycleLimit, km.CycleTag, km.CycleType,
		km.Suggestion, km.Edit, km.Help, km.Quit,
	} {
		for _, k := range b.Keys() {
			prev, dup := seen[k]
			assert.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
			seen[k] = b.Help().Desc
		}
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.NotEmpty(t, km.ResultsHelp())
	assert.Len(t, km.FullHelp(), 4)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("tab", km.Results))
	assert.True(t, Matches("/", km.Edit))
	assert.False(t, Matches("x", km.Edit))
}

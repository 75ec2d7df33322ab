// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
//
// While the query input has focus every printable key edits the query, so
// the single-letter filter bindings only apply in results mode.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the query input or closes an overlay.
	Back key.Binding

	// Results moves focus from the query input to the result list.
	Results key.Binding

	// Edit moves focus back to the query input.
	Edit key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Actions opens the action menu on a result.
	Actions key.Binding

	// ToggleOCR cycles the OCR presence filter.
	ToggleOCR key.Binding

	// CycleMode cycles the search mode.
	CycleMode key.Binding

	// ToggleEnhanced switches between the plain and enhanced endpoints.
	ToggleEnhanced key.Binding

	// CycleAge cycles the document age presets.
	CycleAge key.Binding

	// CycleSize cycles the file size presets.
	CycleSize key.Binding

	// CycleLimit cycles the page size presets.
	CycleLimit key.Binding

	// CycleTag cycles the tag filter through the top facet tags.
	CycleTag key.Binding

	// CycleType cycles the MIME type filter through the top facet types.
	CycleType key.Binding

	// Suggestion applies the numbered suggestion.
	Suggestion key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Results: key.NewBinding(
			key.WithKeys("enter", "tab", "down"),
			key.WithHelp("tab", "results"),
		),
		Edit: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "edit query"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Actions: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "actions"),
		),
		ToggleOCR: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "ocr"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mode"),
		),
		ToggleEnhanced: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enhanced"),
		),
		CycleAge: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "age"),
		),
		CycleSize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "size"),
		),
		CycleLimit: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "limit"),
		),
		CycleTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "type"),
		),
		Suggestion: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "use suggestion"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Results, k.Help, k.Quit}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Up, k.Actions, k.ToggleOCR, k.CycleMode, k.Suggestion}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Actions, k.Results, k.Edit},
		{k.ToggleOCR, k.CycleAge, k.CycleSize, k.CycleTag, k.CycleType},
		{k.CycleMode, k.CycleLimit, k.ToggleEnhanced, k.Suggestion},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

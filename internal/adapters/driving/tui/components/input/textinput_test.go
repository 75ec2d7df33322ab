package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchInput(t *testing.T) {
	in := NewSearchInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
}

func TestSearchInput_Init(t *testing.T) {
	assert.NotNil(t, NewSearchInput(nil).Init())
}

func TestSearchInput_Update_ReportsChange(t *testing.T) {
	in := NewSearchInput(nil)

	_, _, changed := in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.True(t, changed)
	assert.Equal(t, "a", in.Value())

	_, _, changed = in.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, changed)
}

func TestSearchInput_Update_Backspace(t *testing.T) {
	in := NewSearchInput(nil)
	in.SetValue("Test 1")

	_, _, changed := in.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.True(t, changed)
	assert.Equal(t, "Test ", in.Value())
}

func TestSearchInput_Update_NoLengthLimit(t *testing.T) {
	in := NewSearchInput(nil)
	long := make([]rune, 1200)
	for i := range long {
		long[i] = 'x'
	}

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: long})

	assert.Len(t, in.Value(), 1200)
}

func TestSearchInput_FocusBlur(t *testing.T) {
	in := NewSearchInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestSearchInput_SetWidth_Minimum(t *testing.T) {
	in := NewSearchInput(nil)

	in.SetWidth(10)

	assert.Equal(t, 10, in.Width())
	assert.Equal(t, 20, in.textinput.Width)
}

func TestSearchInput_View(t *testing.T) {
	in := NewSearchInput(nil)
	in.SetValue("invoice")

	assert.Contains(t, in.View(), "Search:")
	assert.Contains(t, in.View(), "invoice")
}

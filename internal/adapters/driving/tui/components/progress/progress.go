// Package progress renders search progress feedback: a spinner while the
// session is busy and a bar for the approximate completion percentage.
package progress

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/styles"
)

// Indicator shows whether a search is running and how far along it is.
type Indicator struct {
	bar     progress.Model
	spinner spinner.Model
	styles  *styles.Styles
	percent int
	busy    bool
}

// NewIndicator creates a progress indicator.
func NewIndicator(s *styles.Styles) *Indicator {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	theme := s.Theme()
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)

	return &Indicator{
		bar:     bar,
		spinner: sp,
		styles:  s,
	}
}

// Init starts the spinner animation.
func (i *Indicator) Init() tea.Cmd {
	return i.spinner.Tick
}

// Update advances the spinner.
func (i *Indicator) Update(msg tea.Msg) (*Indicator, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return i, nil
	}
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return i, cmd
}

// Set records the session's busy flag and progress percentage.
func (i *Indicator) Set(busy bool, percent int) {
	i.busy = busy
	i.percent = min(max(percent, 0), 100)
}

// View renders the indicator. It is empty when idle with no progress.
func (i *Indicator) View() string {
	if !i.busy && i.percent == 0 {
		return ""
	}

	out := ""
	if i.busy {
		out = i.spinner.View() + " "
	}
	if i.percent > 0 {
		out += i.bar.ViewAs(float64(i.percent) / 100)
	}
	return out
}

// Percent returns the displayed percentage.
func (i *Indicator) Percent() int {
	return i.percent
}

// Busy reports whether the spinner is shown.
func (i *Indicator) Busy() bool {
	return i.busy
}

// SetWidth sets the bar width.
func (i *Indicator) SetWidth(width int) {
	i.bar.Width = max(width/3, 10)
}

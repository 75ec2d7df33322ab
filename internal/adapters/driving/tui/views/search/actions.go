package search

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// Result actions offered by the action menu.
const (
	actionOpen     = "Open in browser"
	actionDownload = "Download"
	actionCancel   = "Cancel"
)

// ActionMenu represents a simple action selection overlay.
type ActionMenu struct {
	actions  []string
	selected int
	visible  bool
	document domain.DocumentSummary
}

// openActionMenu shows the actions for the selected document.
func (v *View) openActionMenu() {
	doc := v.list.SelectedDocument()
	if doc == nil {
		return
	}
	v.actionMenu = &ActionMenu{
		actions:  []string{actionOpen, actionDownload, actionCancel},
		visible:  true,
		document: *doc,
	}
}

// handleActionMenuKey processes keyboard input when action menu is visible.
func (v *View) handleActionMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.moveAction(-1)
		return v, nil
	case tea.KeyDown:
		v.moveAction(1)
		return v, nil
	case tea.KeyEnter:
		action := v.actionMenu.actions[v.actionMenu.selected]
		doc := v.actionMenu.document
		v.actionMenu = nil
		return v, v.executeAction(action, doc)
	case tea.KeyEsc:
		v.actionMenu = nil
		return v, nil
	}

	// Handle vim-style navigation in action menu
	switch msg.String() {
	case "k":
		v.moveAction(-1)
	case "j":
		v.moveAction(1)
	}
	return v, nil
}

func (v *View) moveAction(delta int) {
	next := v.actionMenu.selected + delta
	if next >= 0 && next < len(v.actionMenu.actions) {
		v.actionMenu.selected = next
	}
}

// executeAction runs the selected action off the UI goroutine.
func (v *View) executeAction(action string, doc domain.DocumentSummary) tea.Cmd {
	if action == actionCancel {
		return nil
	}
	if v.actionService == nil {
		return func() tea.Msg { return messages.ActionCompleted{Err: ErrNoActionService} }
	}

	svc, ctx, dir := v.actionService, v.ctx, v.downloadDir
	switch action {
	case actionOpen:
		return func() tea.Msg {
			if err := svc.OpenDocument(ctx, doc.ID); err != nil {
				return messages.ActionCompleted{Err: err}
			}
			return messages.ActionCompleted{Message: "Opening " + doc.DisplayName()}
		}
	case actionDownload:
		v.statusbar.SetNotice("Downloading " + doc.DisplayName() + "...")
		return func() tea.Msg {
			path, err := svc.Download(ctx, doc.ID, dir)
			if err != nil {
				return messages.ActionCompleted{Err: err}
			}
			return messages.ActionCompleted{Message: "Saved to " + path}
		}
	}
	return nil
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	lines := make([]string, 0, len(v.actionMenu.actions)+1)
	lines = append(lines, v.styles.Subtitle.Render(v.actionMenu.document.DisplayName()))
	for i, action := range v.actionMenu.actions {
		if i == v.actionMenu.selected {
			lines = append(lines, v.styles.Selected.Render("> "+action))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+action))
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmResultMsg carries the user's answer.
type ConfirmResultMsg struct {
	OK bool
}

// Confirm is a modal yes/no dialog. "No" is selected initially.
type Confirm struct {
	Prompt string
	yes    bool
	theme  *styles.Theme
}

// NewConfirm creates a dialog for prompt.
func NewConfirm(theme *styles.Theme, prompt string) Confirm {
	return Confirm{Prompt: prompt, theme: theme}
}

// Selected reports whether "Yes" is highlighted.
func (c Confirm) Selected() bool { return c.yes }

// Update handles arrows/tab to move, y/n to answer, Enter to accept the
// selection, and Esc to cancel.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.yes = !c.yes
	case "y", "Y":
		return c, answer(true)
	case "n", "N", "esc":
		return c, answer(false)
	case "enter":
		return c, answer(c.yes)
	}
	return c, nil
}

func answer(ok bool) tea.Cmd {
	return func() tea.Msg { return ConfirmResultMsg{OK: ok} }
}

// View renders the dialog centered in width x height.
func (c Confirm) View(width, height int) string {
	t := c.theme
	yes, no := t.ConfirmButton, t.ConfirmButtonActive
	if c.yes {
		yes, no = t.ConfirmButtonActive, t.ConfirmButton
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), "  ", no.Render("No"))

	box := t.ConfirmBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		t.ConfirmTitle.Render(c.Prompt),
		buttons,
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

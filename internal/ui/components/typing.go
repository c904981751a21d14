// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// TypingText is shown next to the spinner while a reply is pending.
const TypingText = "Assistant is typing…"

// Typing is the pending-reply indicator.
type Typing struct {
	spinner spinner.Model
	theme   *styles.Theme
}

// NewTyping creates the indicator.
func NewTyping(theme *styles.Theme) Typing {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return Typing{spinner: s, theme: theme}
}

// Tick starts the animation.
func (t Typing) Tick() tea.Cmd { return t.spinner.Tick }

// Update advances the spinner.
func (t Typing) Update(msg tea.Msg) (Typing, tea.Cmd) {
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// SetTheme swaps the theme.
func (t *Typing) SetTheme(theme *styles.Theme) {
	t.theme = theme
	t.spinner.Style = theme.Spinner
}

// View renders the indicator.
func (t Typing) View() string {
	return t.spinner.View() + " " + t.theme.TypingText.Render(TypingText)
}

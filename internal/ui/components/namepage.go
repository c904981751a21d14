// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// NAME PAGE
// =============================================================================

const (
	// MaxNameLength caps the onboarding name.
	MaxNameLength = 50

	// GuestName is used when the user skips onboarding.
	GuestName = "Guest"
)

// NameSubmittedMsg is emitted when onboarding finishes.
type NameSubmittedMsg struct {
	Name string
}

// NamePage asks the user what to call them.
type NamePage struct {
	input textinput.Model
	theme *styles.Theme
}

// NewNamePage creates a focused name prompt.
func NewNamePage(theme *styles.Theme) NamePage {
	ti := textinput.New()
	ti.Placeholder = "Enter your name..."
	ti.CharLimit = MaxNameLength
	ti.Width = MaxNameLength
	ti.Focus()
	return NamePage{input: ti, theme: theme}
}

// Init starts the cursor blink.
func (p NamePage) Init() tea.Cmd { return textinput.Blink }

// SetTheme swaps the theme.
func (p *NamePage) SetTheme(theme *styles.Theme) { p.theme = theme }

// Update handles Enter (submit a non-empty name) and Esc (skip as Guest).
func (p NamePage) Update(msg tea.Msg) (NamePage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			name := strings.TrimSpace(p.input.Value())
			if name == "" {
				return p, nil
			}
			return p, submitName(name)
		case tea.KeyEsc:
			return p, submitName(GuestName)
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func submitName(name string) tea.Cmd {
	return func() tea.Msg { return NameSubmittedMsg{Name: name} }
}

// View renders the prompt centered in width x height.
func (p NamePage) View(width, height int) string {
	t := p.theme
	box := t.NameBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		t.WelcomeTitle.Render("Welcome!"),
		t.NamePrompt.Render("What should I call you?"),
		"",
		p.input.View(),
		"",
		t.WelcomeHint.Render("Enter to continue, Esc to start as "+GuestName),
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

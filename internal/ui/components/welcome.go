// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// FeatureCard is one tile on the welcome screen.
type FeatureCard struct {
	Title       string
	Description string
}

// DefaultFeatures are the welcome screen tiles.
var DefaultFeatures = []FeatureCard{
	{"Quick answers", "Ask a question and get a reply in seconds"},
	{"Calculations", "Simple arithmetic like 12 * 7"},
	{"Date & time", "The current time and date on request"},
	{"Remembers you", "Your session survives a restart"},
}

// WelcomeTitle personalizes the heading.
func WelcomeTitle(name string) string {
	if name == "" {
		return "Welcome!"
	}
	return "Welcome, " + name + "!"
}

// RenderWelcome draws the welcome screen shown before the first message.
func RenderWelcome(theme *styles.Theme, name, greeting string, width int) string {
	cardWidth := theme.WelcomeCard.GetWidth() + 2
	perRow := 2
	if width < cardWidth*2+2 {
		perRow = 1
	}

	var rows []string
	for i := 0; i < len(DefaultFeatures); i += perRow {
		var row []string
		for j := i; j < i+perRow && j < len(DefaultFeatures); j++ {
			f := DefaultFeatures[j]
			row = append(row, theme.WelcomeCard.Render(
				theme.WelcomeCardTitle.Render(f.Title)+"\n"+f.Description))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.WelcomeTitle.Render(WelcomeTitle(name)),
		greeting,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		theme.WelcomeHint.Render("Ask me anything to get started"),
	)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.WelcomeBox.Render(body))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/components"
)

// Fixed rows around the viewport: header (2), status line, banner line,
// footer.
const chromeRows = 5

// layout sizes every component after a resize.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.renderer.SetWidth(m.width)
	m.input.SetWidth(m.width)

	vh := m.height - chromeRows - m.input.Height()
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = vh
	m.refreshViewport()
}

// refreshViewport re-renders the transcript and scrolls to the bottom.
func (m *Model) refreshViewport() {
	content := m.renderer.RenderList(m.snap.Messages, m.feedback)
	if m.snap.IsWelcomeState() {
		welcome := components.RenderWelcome(m.theme, m.userName, m.opts.Greeting, m.width)
		content = welcome + "\n" + content
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.onboarding {
		return m.namePage.View(m.width, m.height)
	}
	if m.confirm != nil {
		return m.confirm.View(m.width, m.height)
	}

	var status string
	switch {
	case m.snap.Pending:
		status = m.typing.View()
	case m.toast != "":
		status = m.theme.Toast.Render(m.toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.theme.StatusBar.Render(status),
		components.RenderBanner(m.theme, m.snap.Error, m.width),
		m.input.View(),
		m.footer(),
	)
}

func (m Model) footer() string {
	render := func(k, desc string) string {
		return m.theme.ShortcutKey.Render(k) + " " + m.theme.ShortcutDesc.Render(desc)
	}
	help := FormatHelp(m.keys.FooterBindings(), render)
	if lipgloss.Width(help) > m.width {
		help = FormatHelp([]key.Binding{m.keys.Send, m.keys.Quit}, render)
	}
	return m.theme.StatusBar.Render(help)
}

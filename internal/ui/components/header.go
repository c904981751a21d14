// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// sessionBadgeLen is how many characters of the session id the badge shows.
const sessionBadgeLen = 8

// Header is the title bar.
type Header struct {
	Title     string
	Subtitle  string
	Target    string // backend base URL
	SessionID string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with default titles.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "AI Assistant",
		Subtitle: "Always here to help",
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) { h.Width = width }

// SetTheme swaps the theme.
func (h *Header) SetTheme(theme *styles.Theme) { h.theme = theme }

// SetTarget sets the backend URL shown under the title.
func (h *Header) SetTarget(target string) { h.Target = target }

// SetSession sets the session id for the badge. Empty shows "new".
func (h *Header) SetSession(id string) { h.SessionID = id }

// Badge returns the unstyled badge text.
func (h *Header) Badge() string {
	if h.SessionID == "" {
		return "new"
	}
	return util.ShortID(h.SessionID, sessionBadgeLen)
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := h.Width
	if width < 30 {
		width = 30
	}
	innerWidth := width - 2

	left := t.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" && t.GetLayoutMode() != styles.LayoutNarrow {
		left += "  " + t.HeaderSubtitle.Render(h.Subtitle)
	}

	badgeStyle := t.SessionBadge
	if h.SessionID == "" {
		badgeStyle = t.SessionBadgeNew
	}
	right := badgeStyle.Render("session " + h.Badge())
	if h.Target != "" && t.GetLayoutMode() == styles.LayoutWide {
		right = t.HeaderSubtitle.Render(h.Target) + " " + right
	}

	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return t.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

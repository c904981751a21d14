// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// RenderBanner draws the error banner, or "" when there is no error.
// Validation problems are warnings; everything else is an error.
func RenderBanner(theme *styles.Theme, b *chat.Banner, width int) string {
	if b == nil {
		return ""
	}

	style := theme.BannerError
	indicator := styles.StatusIndicators.Error
	if b.Kind == chat.BannerValidation {
		style = theme.BannerWarning
		indicator = styles.StatusIndicators.Warning
	}

	const hint = "  (esc to dismiss)"
	text := util.TruncateWidth(indicator+" "+b.Text, width-len(hint)-2)
	return style.Width(width).Render(text + hint)
}

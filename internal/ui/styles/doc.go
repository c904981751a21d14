// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and lipgloss styles for the chat UI.

All colors are lipgloss AdaptiveColor values. A Theme forces the light or dark
variant, or follows the terminal background in auto mode.

# Usage

	theme := styles.NewTheme(styles.ModeAuto)
	fmt.Println(theme.UserBubble.Render("hi"))

	theme = theme.Toggle() // dark <-> light
*/
package styles

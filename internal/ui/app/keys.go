// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the chat screen bindings.
type KeyMap struct {
	Send      key.Binding
	Clear     key.Binding
	Copy      key.Binding
	ThumbUp   key.Binding
	ThumbDown key.Binding
	Theme     key.Binding
	Dismiss   key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy reply"),
		),
		ThumbUp: key.NewBinding(
			key.WithKeys("alt+u"),
			key.WithHelp("A-u", "helpful"),
		),
		ThumbDown: key.NewBinding(
			key.WithKeys("alt+d"),
			key.WithHelp("A-d", "not helpful"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// FooterBindings are shown in the footer, most important first.
func (k KeyMap) FooterBindings() []key.Binding {
	return []key.Binding{k.Send, k.Clear, k.Copy, k.ThumbUp, k.ThumbDown, k.Theme, k.Quit}
}

// FormatHelp renders bindings as "key desc" pairs separated by spaces.
func FormatHelp(bindings []key.Binding, render func(k, desc string) string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, render(h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatterm/internal/ui/styles"
	"github.com/jeranaias/chatterm/internal/util"
)

// =============================================================================
// INPUT COMPONENT
// =============================================================================

const (
	inputHeight = 3

	// warnRatio is the share of the limit where the counter turns amber.
	warnRatio = 0.9
)

// Input is the message box. Enter is left to the parent; Alt+Enter inserts a
// newline.
type Input struct {
	textarea textarea.Model
	theme    *styles.Theme
	maxChars int
	disabled bool
	width    int
}

// NewInput creates a focused input box.
func NewInput(theme *styles.Theme, maxChars int) Input {
	ta := textarea.New()
	ta.Placeholder = "Message..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	// Length is enforced on send so the counter can show overflow.
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	return Input{
		textarea: ta,
		theme:    theme,
		maxChars: maxChars,
		width:    80,
	}
}

// Update forwards messages to the textarea unless disabled.
func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if i.disabled {
		return i, nil
	}
	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	return i, cmd
}

// Value returns the raw text.
func (i Input) Value() string { return i.textarea.Value() }

// SetValue replaces the text.
func (i *Input) SetValue(s string) { i.textarea.SetValue(s) }

// Reset clears the text.
func (i *Input) Reset() { i.textarea.Reset() }

// Disabled reports whether input is blocked.
func (i Input) Disabled() bool { return i.disabled }

// SetDisabled blocks or unblocks typing.
func (i *Input) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.textarea.Blur()
	} else {
		i.textarea.Focus()
	}
}

// SetTheme swaps the theme.
func (i *Input) SetTheme(theme *styles.Theme) { i.theme = theme }

// SetWidth sizes the box to the screen width.
func (i *Input) SetWidth(width int) {
	i.width = width
	// Border and padding take four columns.
	if w := width - 4; w > 10 {
		i.textarea.SetWidth(w)
	}
}

// Height returns the rendered height including border and counter.
func (i Input) Height() int {
	return inputHeight + 3
}

// CharCount counts characters the way the controller validates them.
func (i Input) CharCount() int {
	return util.RuneLen(strings.TrimSpace(norm.NFC.String(i.textarea.Value())))
}

// CounterLevel grades how close the text is to the limit.
type CounterLevel int

const (
	CounterNormal CounterLevel = iota
	CounterWarning
	CounterDanger
)

// CounterLevel reports the counter state for the current text.
func (i Input) CounterLevel() CounterLevel {
	n := i.CharCount()
	switch {
	case n > i.maxChars:
		return CounterDanger
	case float64(n) >= float64(i.maxChars)*warnRatio:
		return CounterWarning
	default:
		return CounterNormal
	}
}

func (i Input) counterStyle() lipgloss.Style {
	switch i.CounterLevel() {
	case CounterDanger:
		return i.theme.CharCountDanger
	case CounterWarning:
		return i.theme.CharCountWarning
	default:
		return i.theme.CharCount
	}
}

// View renders the box and the counter line beneath it.
func (i Input) View() string {
	box := i.theme.InputContainer
	if i.disabled {
		box = i.theme.InputContainerDisabled
	}

	n := i.CharCount()
	counter := i.counterStyle().Render(fmt.Sprintf("%d/%d", n, i.maxChars))
	counterLine := lipgloss.PlaceHorizontal(i.width, lipgloss.Right, counter)

	return lipgloss.JoinVertical(lipgloss.Left, box.Width(i.width-2).Render(i.textarea.View()), counterLine)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// FEEDBACK
// =============================================================================

// Feedback is the local thumbs up/down state of an assistant message.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackUp
	FeedbackDown
)

// Toggle returns the new state after pressing want: pressing the active
// choice clears it.
func (f Feedback) Toggle(want Feedback) Feedback {
	if f == want {
		return FeedbackNone
	}
	return want
}

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

const (
	// bubbleRatio is the share of the width a bubble may use.
	bubbleRatio = 0.8
	minBubble   = 20
	newMarker   = "▸ "
)

// MessageRenderer draws transcript messages. Assistant text is rendered as
// markdown; results are cached per message since message text never changes.
type MessageRenderer struct {
	theme      *styles.Theme
	width      int
	ShowIntent bool

	md    *glamour.TermRenderer
	cache map[string]string
}

// NewMessageRenderer creates a renderer for the given width.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	r := &MessageRenderer{theme: theme, ShowIntent: true}
	r.SetWidth(width)
	return r
}

// SetWidth changes the wrap width and drops cached renders.
func (r *MessageRenderer) SetWidth(width int) {
	if width < minBubble+4 {
		width = minBubble + 4
	}
	if width == r.width && r.md != nil {
		return
	}
	r.width = width
	r.rebuild()
}

// SetTheme switches palette and drops cached renders.
func (r *MessageRenderer) SetTheme(theme *styles.Theme) {
	r.theme = theme
	r.rebuild()
}

func (r *MessageRenderer) bubbleWidth() int {
	w := int(float64(r.width) * bubbleRatio)
	if w < minBubble {
		w = minBubble
	}
	return w
}

func (r *MessageRenderer) rebuild() {
	r.cache = make(map[string]string)
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.theme.GlamourStyle()),
		glamour.WithWordWrap(r.bubbleWidth()-4),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
		md = nil
	}
	r.md = md
}

// markdown renders assistant text, falling back to plain wrapped text.
func (r *MessageRenderer) markdown(msg model.Message) string {
	if out, ok := r.cache[msg.ID]; ok {
		return out
	}
	out := msg.Text
	if r.md != nil {
		if rendered, err := r.md.Render(msg.Text); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	r.cache[msg.ID] = out
	return out
}

// Render draws one message.
func (r *MessageRenderer) Render(msg model.Message, fb Feedback) string {
	t := r.theme

	var label string
	if msg.IsUser() {
		label = t.UserLabel.Render(msg.Author.DisplayName())
	} else {
		label = t.AssistantLabel.Render(msg.Author.DisplayName())
	}
	if msg.IsNew {
		label = t.NewMarker.Render(newMarker) + label
	}
	if !msg.Timestamp.IsZero() {
		label += " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}
	if !msg.IsUser() {
		if r.ShowIntent && msg.Intent != "" {
			label += " " + t.IntentTag.Render(msg.Intent)
		}
		switch fb {
		case FeedbackUp:
			label += " " + t.FeedbackUp.Render("[+]")
		case FeedbackDown:
			label += " " + t.FeedbackDown.Render("[-]")
		}
	}

	maxWidth := r.bubbleWidth()
	var bubble string
	if msg.IsUser() {
		bubble = t.UserBubble.MaxWidth(maxWidth).Width(fitWidth(msg.Text, maxWidth)).Render(msg.Text)
	} else {
		bubble = t.AssistantBubble.MaxWidth(maxWidth).Render(r.markdown(msg))
	}

	if msg.IsUser() {
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right,
			lipgloss.JoinVertical(lipgloss.Right, label, bubble))
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// RenderList draws the transcript top to bottom.
func (r *MessageRenderer) RenderList(msgs []model.Message, feedback map[string]Feedback) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.Render(m, feedback[m.ID]))
	}
	return strings.Join(parts, "\n\n")
}

// fitWidth sizes a plain-text bubble to its longest line, capped by max.
func fitWidth(text string, max int) int {
	longest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := lipgloss.Width(line); w > longest {
			longest = w
		}
	}
	// Width covers padding; the border adds two columns outside it.
	if w := longest + 2; w < max-2 {
		return w
	}
	return max - 2
}

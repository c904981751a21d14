// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Transcript is the append-only message log of a conversation. It always
// starts with exactly one assistant greeting. Transcript is not safe for
// concurrent use; the chat controller guards it.
type Transcript struct {
	messages []Message
	lastID   string
}

// NewTranscript creates a transcript holding only the greeting.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{}
	t.Reset(greeting)
	return t
}

// Reset discards every message and restores the single greeting. The
// greeting is not considered new.
func (t *Transcript) Reset(greeting string) {
	t.messages = []Message{NewAssistantMessage(greeting, "")}
	t.lastID = ""
}

// Append adds msg to the end of the log and makes it the newest message.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
	t.lastID = msg.ID
}

// Messages returns a copy of the log with IsNew set on the newest message.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	for i := range out {
		out[i].IsNew = t.lastID != "" && out[i].ID == t.lastID
	}
	return out
}

// LastAssistant returns the newest assistant message in msgs and whether
// one exists.
func LastAssistant(msgs []Message) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Author == AuthorAssistant {
			return msgs[i], true
		}
	}
	return Message{}, false
}

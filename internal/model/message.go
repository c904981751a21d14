// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// AUTHOR TYPE
// =============================================================================

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// String returns the string representation of the author.
func (a Author) String() string {
	return string(a)
}

// DisplayName returns a human-readable name for the author.
func (a Author) DisplayName() string {
	switch a {
	case AuthorUser:
		return "You"
	case AuthorAssistant:
		return "Assistant"
	default:
		return string(a)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the transcript.
type Message struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Intent    string    `json:"intent,omitempty"` // Backend classification, advisory only
	Timestamp time.Time `json:"timestamp"`

	// IsNew is derived by Transcript.Messages and is never persisted.
	IsNew bool `json:"-"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(author Author, text string) Message {
	return Message{
		ID:        generateID(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string) Message {
	return NewMessage(AuthorUser, text)
}

// NewAssistantMessage creates an assistant-authored message with an optional
// intent label.
func NewAssistantMessage(text, intent string) Message {
	msg := NewMessage(AuthorAssistant, text)
	msg.Intent = intent
	return msg
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Author == AuthorUser
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}

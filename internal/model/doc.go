// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Message: a single user or assistant message
//   - Author: who wrote a message (User or Assistant)
//   - Transcript: the append-only message log of one session
//
// # Newness
//
// Messages do not carry a stored "new" flag. The Transcript remembers the ID
// of the last appended message and derives IsNew when it hands out copies,
// so at most one message is ever new and appends never rewrite older entries.
//
// # Usage
//
//	t := model.NewTranscript("Hello! How can I help?")
//	t.Append(model.NewUserMessage("hi"))
//	for _, m := range t.Messages() {
//	    fmt.Println(m.Author, m.Text, m.IsNew)
//	}
package model

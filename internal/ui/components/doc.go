// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual pieces of the chat screen.
//
// Each component renders from the data it is handed plus a *styles.Theme.
// None of them talk to the network or own conversation state; the app
// package feeds them a chat.Snapshot on every change.
//
// # Components
//
//   - Header: title, backend target, session badge
//   - MessageRenderer: user and assistant bubbles, markdown via glamour
//   - Input: textarea with a character counter
//   - Typing: spinner with "Assistant is typing..."
//   - Welcome / NamePage: first-run screens
//   - Banner: the last error
//   - Confirm: yes/no dialog
package components

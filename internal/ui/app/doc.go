// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the full-screen chat program.
//
// The Bubble Tea event loop is the only goroutine that touches the Model.
// Network calls run inside tea.Cmd goroutines through chat.Controller; the
// controller's change notifications arrive as StateChangedMsg, after which
// the model re-reads chat.Snapshot and re-renders.
//
// # Key Bindings
//
//   - Enter: send, Alt+Enter: newline
//   - Ctrl+L: clear the conversation (asks first)
//   - Ctrl+Y: copy the last assistant reply
//   - Alt+U / Alt+D: thumbs up / down on the newest reply
//   - Ctrl+T: switch between dark and light
//   - Esc: dismiss the error banner
//   - PgUp/PgDn: scroll, Ctrl+C: quit
package app

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller.
//
// The Controller owns the transcript, the backend session identifier, the
// pending flag, and the last user-visible error. Views never mutate it; they
// render a Snapshot and call Send, Clear or DismissError in response to
// input.
//
// At most one request is in flight. A second Send while one is outstanding
// returns ErrBusy and changes nothing.
//
// Network failures never escape the controller: they become a generic
// assistant reply in the transcript plus a Banner describing what went wrong.
package chat

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks server-side conversation state for the
// development backend.
//
// Each session remembers the last detected intent, an email address the
// user offered, and a bounded history of exchanges. Sessions idle for longer
// than the timeout are reset on next access and purged by the janitor.
//
// # Usage
//
//	mgr := session.NewManager(session.DefaultConfig())
//	go mgr.RunJanitor(ctx, time.Minute)
//
//	id, state := mgr.Resolve(requestedID)
//	mgr.AddExchange(id, userText, reply, intent)
package session

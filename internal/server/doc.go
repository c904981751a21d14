// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is a development chat backend speaking the same HTTP
// contract the client expects.
//
// Replies come from a small rule-based Responder rather than a model, which
// is enough to drive the terminal client end to end.
//
// # Endpoints
//
//   - POST   /chat              - {"message", "session_id"} -> {"response", "session_id", "intent"}
//   - DELETE /session/{id}      - forget a session (204 either way)
//   - GET    /stats             - session counts
//   - GET    /healthz           - liveness
//
// All origins are allowed. Request logs carry method, path, status, and
// duration but never message text.
package server

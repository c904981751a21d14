// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the chat backend.
//
// The backend exposes two endpoints:
//
//	POST   {baseURL}/chat          {"message": "...", "session_id": "..."|null}
//	DELETE {baseURL}/session/{id}
//
// Failures are classified into three kinds so callers can react without
// inspecting strings:
//
//   - *TransportError: no HTTP response was produced (refused, DNS, timeout)
//   - *ServerError: the backend answered with a non-2xx status
//   - ErrMalformedResponse: a 2xx answer that could not be decoded
//
// Chat is never retried. DeleteSession is idempotent and retries transport
// errors and 5xx responses with exponential backoff.
package api

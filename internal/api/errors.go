// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse indicates a 2xx response whose body could not be used.
var ErrMalformedResponse = errors.New("malformed response from server")

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	// URL is the base URL the client was talking to.
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx answer from the backend.
type ServerError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
}

// Retryable reports whether the status is a transient server failure.
func (e *ServerError) Retryable() bool {
	return e.Status >= 500 && e.Status < 600
}

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is (or wraps) a *ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// statusMessage is used when the body carries nothing readable.
func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unknown status"
}

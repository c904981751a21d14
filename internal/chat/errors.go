// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"

	"github.com/jeranaias/chatterm/internal/api"
)

// ErrBusy is returned by Send while another request is outstanding.
var ErrBusy = errors.New("a message is already being sent")

// Validation reasons.
const (
	ReasonEmpty   = "message is empty"
	ReasonTooLong = "message too long"
)

// ValidationError rejects outgoing text before any request is made.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Reason
}

// ClearSessionError records a failed best-effort backend session delete.
// It is logged, never shown.
type ClearSessionError struct {
	SessionID string
	Err       error
}

// Error implements the error interface.
func (e *ClearSessionError) Error() string {
	return fmt.Sprintf("failed to clear session %s: %v", e.SessionID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ClearSessionError) Unwrap() error {
	return e.Err
}

// =============================================================================
// BANNERS
// =============================================================================

// BannerKind classifies a user-visible error.
type BannerKind string

const (
	BannerValidation BannerKind = "validation"
	BannerTransport  BannerKind = "transport"
	BannerServer     BannerKind = "server"
	BannerUnknown    BannerKind = "unknown"
)

// Banner is the last error, ready for display.
type Banner struct {
	Kind BannerKind
	Text string

	// Err is the error the banner was built from.
	Err error
}

// Error lets a Banner travel as an error value.
func (b *Banner) Error() string {
	return b.Text
}

// Unwrap returns the original error.
func (b *Banner) Unwrap() error {
	return b.Err
}

// bannerFor maps an error to its banner text.
func bannerFor(err error) *Banner {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &Banner{Kind: BannerValidation, Text: ve.Reason, Err: err}
	}

	var te *api.TransportError
	if errors.As(err, &te) {
		return &Banner{
			Kind: BannerTransport,
			Text: fmt.Sprintf("Cannot connect to the server at %s. Is the backend running?", te.URL),
			Err:  err,
		}
	}

	var se *api.ServerError
	if errors.As(err, &se) {
		return &Banner{
			Kind: BannerServer,
			Text: fmt.Sprintf("Server error (HTTP %d): %s", se.Status, se.Message),
			Err:  err,
		}
	}

	return &Banner{
		Kind: BannerUnknown,
		Text: fmt.Sprintf("Unexpected error: %v", err),
		Err:  err,
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/chatterm/internal/chat"
)

// =============================================================================
// CONFIRMATION HANDLING
// =============================================================================

// ErrConfirmationRequired is returned when a prompt is needed but stdin
// is not a terminal.
var ErrConfirmationRequired = errors.New("confirmation required but stdin is not a terminal; use --yes")

// ConfirmationOptions controls RequireConfirmation.
type ConfirmationOptions struct {
	// Yes is set by --yes and skips the prompt.
	Yes bool
	// In and Out are the prompt streams.
	In  io.Reader
	Out io.Writer
}

// RequireConfirmation checks if the user has confirmed a destructive action.
//
// Confirmation flow:
//  1. If opts.Yes is true (--yes), return true immediately
//  2. If stdin is not a TTY, return ErrConfirmationRequired
//  3. Otherwise, show "<prompt> [y/N]: " and wait for a line
func RequireConfirmation(prompt string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if !stdinIsTTY() {
		return false, ErrConfirmationRequired
	}

	fmt.Fprintf(opts.Out, "%s [y/N]: ", prompt)

	input, err := bufio.NewReader(opts.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return isYes(input), nil
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// promptConfirmer adapts RequireConfirmation to chat.Confirmer.
type promptConfirmer struct {
	opts ConfirmationOptions
}

var _ chat.Confirmer = promptConfirmer{}

// Confirm implements chat.Confirmer.
func (p promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return RequireConfirmation(prompt, p.opts)
}

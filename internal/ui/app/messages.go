// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/jeranaias/chatterm/internal/config"

// StateChangedMsg tells the model to re-read the controller snapshot.
type StateChangedMsg struct{}

// ConfigReloadedMsg carries a config re-read after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// sendDoneMsg reports a finished Send.
type sendDoneMsg struct {
	err error
}

// clearDoneMsg reports a finished Clear.
type clearDoneMsg struct {
	cleared bool
	err     error
}

// confirmRequestMsg opens the confirm dialog; the answer goes to reply.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// toastExpiredMsg hides toast id if it is still showing.
type toastExpiredMsg struct {
	id int
}

// clipboardResultMsg reports a copy attempt.
type clipboardResultMsg struct {
	err error
}

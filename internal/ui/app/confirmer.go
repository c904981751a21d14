// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// errNotRunning is returned when no program is attached.
var errNotRunning = errors.New("confirm: program not running")

// Confirmer implements chat.Confirmer by opening the dialog inside the
// running program and blocking until it is answered.
type Confirmer struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Bind attaches the function used to deliver messages to the program,
// normally (*tea.Program).Send.
func (c *Confirmer) Bind(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// Confirm shows prompt and waits for the answer or ctx.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return false, errNotRunning
	}

	reply := make(chan bool, 1)
	send(confirmRequestMsg{prompt: prompt, reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
)

// RunOptions extends Options with program-level settings.
type RunOptions struct {
	Options
	// ConfigPath, when set, is watched and theme changes are applied live.
	ConfigPath string
}

// Run shows the chat screen until the user quits or ctx is cancelled.
// Outstanding background deletes are joined before returning.
func Run(ctx context.Context, ctrl *chat.Controller, opts RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	confirmer := &Confirmer{}
	m := New(ctx, ctrl, confirmer, opts.Options)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	confirmer.Bind(p.Send)

	// Observers may fire from inside Update, where a synchronous Send
	// would deadlock the event loop.
	ctrl.OnChange(func() { go p.Send(StateChangedMsg{}) })

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
			p.Send(ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		} else {
			go w.Run(ctx)
		}
	}

	_, err := p.Run()
	cancel()
	ctrl.Wait()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/ui/app"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

func newTUICommand(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen chat (default)",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			annotationLogToFile: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.runTUI(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&env.flags.showIntent, "show-intent", false, "tag replies with the backend intent")
	return cmd
}

func (e *appEnv) runTUI(ctx context.Context) error {
	mode, err := styles.ParseMode(e.cfg.UI.Theme)
	if err != nil {
		return err
	}

	ctrl, store, err := e.newController(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := app.RunOptions{
		Options: app.Options{
			Target:     e.cfg.API.BaseURL,
			Greeting:   e.cfg.UI.Greeting,
			AskName:    e.cfg.UI.AskName,
			Theme:      mode,
			ShowIntent: e.flags.showIntent,
		},
	}
	// Only an existing file can be watched.
	if _, err := os.Stat(e.cfgPath); err == nil {
		opts.ConfigPath = e.cfgPath
	}
	return app.Run(ctx, ctrl, opts)
}

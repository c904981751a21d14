// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/server"
	"github.com/jeranaias/chatterm/internal/session"
)

func newServeCommand(env *appEnv) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development chat backend",
		Long: `Run a local backend that speaks the same HTTP contract as the real one:
POST /chat, DELETE /session/{id}, GET /stats and GET /healthz.
Replies come from a small rule-based responder.`,
		Example: `  chatterm serve
  chatterm serve --addr 127.0.0.1:8080
  PORT=8080 chatterm serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = env.cfg.Server.Addr
			}
			sessions := session.NewManager(session.Config{
				Timeout:      env.cfg.Server.SessionTimeout(),
				HistoryLimit: env.cfg.Server.HistoryLimit,
			})

			err := server.New(addr, sessions).Run(cmd.Context())
			if err == nil {
				log.Info().Msg("chat backend stopped")
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}

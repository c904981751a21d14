// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/model"
)

func newAskCommand(env *appEnv) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Send one message and print the reply",
		Long: `Send one message through the saved session and print the reply.
Exits with status 1 if the message is rejected or the backend fails.`,
		Example: `  chatterm ask "what time is it?"
  chatterm ask --new hello
  chatterm --ephemeral ask "12 * 7"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ctrl, store, err := env.newController(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			defer ctrl.Wait()

			if fresh {
				if _, err := ctrl.Clear(ctx, chat.AlwaysConfirm); err != nil {
					return err
				}
			}

			if err := ctrl.Send(ctx, strings.Join(args, " ")); err != nil {
				return err
			}

			snap := ctrl.Snapshot()
			if snap.Error != nil {
				return snap.Error
			}
			if reply, ok := model.LastAssistant(snap.Messages); ok {
				fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fresh, "new", false, "start a new session first")
	return cmd
}

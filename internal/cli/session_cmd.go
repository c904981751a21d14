// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/storage"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

func newSessionCommand(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or forget the saved session",
	}
	cmd.AddCommand(newSessionShowCommand(env), newSessionClearCommand(env))
	return cmd
}

func newSessionShowCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved session id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, ok, err := store.Get(cmd.Context(), storage.SessionKey)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok || id == "" {
				fmt.Fprintln(out, "No saved session.")
				return nil
			}
			fmt.Fprintln(out, id)
			return nil
		},
	}
}

func newSessionClearCommand(env *appEnv) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved session here and on the backend",
		Long: `Forget the saved session id and ask the backend to drop it.
Prompts for confirmation unless --yes is given. Without a terminal,
--yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ctrl, store, err := env.newController(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if ctrl.SessionID() == "" {
				fmt.Fprintln(out, "No saved session.")
				return nil
			}

			confirm := promptConfirmer{opts: ConfirmationOptions{
				Yes: yes,
				In:  cmd.InOrStdin(),
				Out: out,
			}}
			ok, err := ctrl.Clear(ctx, confirm)
			ctrl.Wait()
			if !ok {
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("session cleared but could not be removed from storage: %w", err)
			}
			fmt.Fprintln(out, styles.RenderSuccess("Session cleared."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

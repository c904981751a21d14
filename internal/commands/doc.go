// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for line-mode chat.
//
// # Key Types
//
//   - Registry: commands by name and alias
//   - Command: name, aliases, help text and handler
//   - ParseResult: parsed command with name and arguments
//
// # Usage
//
// Parse and execute a command:
//
//	reg := commands.NewRegistry()
//	reg.Register(&commands.Command{Name: "/quit", Aliases: []string{"/q"}, Handler: quit})
//
//	if commands.IsCommand(input) {
//	    err := reg.Execute(ctx, input)
//	}
//
// Tab completion for liner:
//
//	line.SetCompleter(reg.Complete)
package commands

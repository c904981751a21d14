// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatterm command line.
//
// Commands are built with spf13/cobra. Every command shares the same
// bootstrap: load .env, load the config file, apply environment overrides,
// apply global flags, then set up logging.
//
// # Commands
//
//	chatterm                      full-screen chat (same as "chatterm tui")
//	chatterm ask <text>           send one message and print the reply
//	chatterm repl                 line-mode chat with history
//	chatterm session show|clear   inspect or forget the saved session
//	chatterm config show|get|set|path
//	chatterm serve                run the development backend
//
// # Global Flags
//
//	--config PATH     config file (default ~/.chatterm/config.toml)
//	--api-url URL     backend base URL
//	--storage DRIVER  memory, file, sqlite or redis
//	--log-level LVL   trace, debug, info, warn, error
//	--ephemeral       keep the session id in memory only
package cli

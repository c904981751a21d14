// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatterm.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend URL, timeouts, retry and rate limits
//   - StorageConfig: Where the session identifier is persisted
//   - ServerConfig: Settings for the bundled development backend
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CHATTERM_*, PORT)
//   - A .env file in the working directory
//   - ~/.chatterm/config.toml
//   - ~/.chatterm/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.New(cfg.API.BaseURL).WithTimeout(cfg.API.Timeout())
package config

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the small persistent key/value store chatterm
// uses to remember the backend session identifier between runs.
//
// The chat controller never touches files or databases directly; it is
// handed a Store, which lets tests substitute the in-memory driver.
//
// # Drivers
//
//   - memory: process-local map, used by tests and --ephemeral
//   - file:   a single JSON document written atomically (default)
//   - sqlite: a kv table in a local SQLite database (modernc.org/sqlite)
//   - redis:  keys under a prefix in a Redis server
//
// # Usage
//
//	store, err := storage.NewStore(storage.DriverFile, storage.WithPath(path))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id, ok, err := store.Get(ctx, storage.SessionKey)
package storage

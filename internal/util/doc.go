// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the chatterm packages.
//
// String Utilities:
//   - RuneLen: character count used for input limits
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal columns
//   - ShortID: abbreviated identifiers for headers and logs
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util

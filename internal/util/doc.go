// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across psy.
//
// # Key Functions
//
// String Utilities (display width aware, via go-runewidth):
//   - StringWidth: Cell width of a string
//   - TruncateWidth: Truncation with ellipsis
//   - FitWidth, CenterWidth: Fixed width labels for the page indicator
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	label := util.FitWidth(name, 12)
//	err := util.AtomicWriteFile(path, data, 0600)
package util

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of psy.
//
// It stacks the header, the swipe view with the Journal, Chat and
// Resources pages, and a footer that shows either the latest toast or the
// key help. It also owns the cross-page wiring: chat transcripts saved with
// ctrl+s go to the journal, the theme toggle is broadcast to every page,
// and reloaded config files retune the pager without moving it.
//
// Mouse coordinates arrive relative to the terminal; rows below the header
// are shifted before they reach the swipe view.
package app

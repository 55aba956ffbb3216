// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package journal provides the journal page: saved chat transcripts and
// free-form notes, newest first.
package journal

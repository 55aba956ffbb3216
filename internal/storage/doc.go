// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides journal persistence for psy.
//
// Journal entries are stored in a SQLite database using the pure Go
// modernc.org/sqlite driver, so no cgo toolchain is needed.
//
// # Key Types
//
//   - JournalStore: SQLite backed journal
//   - Entry: A single saved journal entry
//
// # Usage
//
//	store, err := storage.OpenJournal("~/.psy/journal.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	entry, err := store.Add(ctx, transcript, storage.SourceChat)
package storage

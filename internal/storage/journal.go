// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/psy-tui/internal/util"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Entry sources.
const (
	SourceChat = "chat"
	SourceNote = "note"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("journal entry not found")
	// ErrEmptyEntry is returned when saving blank content.
	ErrEmptyEntry = errors.New("journal entry is empty")
)

// Entry is one saved journal entry.
type Entry struct {
	ID        string
	Source    string
	Content   string
	CreatedAt time.Time
}

// Title returns the first non-empty line of the entry.
func (e Entry) Title() string {
	return util.FirstLine(e.Content)
}

// JournalStore persists journal entries in SQLite.
// It is safe for concurrent use.
type JournalStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*JournalStore, error) {
	if path == "" {
		return nil, errors.New("journal path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &JournalStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *JournalStore) Close() error {
	return s.db.Close()
}

// Add saves a new entry.
func (s *JournalStore) Add(ctx context.Context, content, source string) (Entry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Entry{}, ErrEmptyEntry
	}
	if source == "" {
		source = SourceNote
	}

	e := Entry{
		ID:        uuid.NewString(),
		Source:    source,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entries (id, source, content, created_at) VALUES (?, ?, ?, ?)",
		e.ID, e.Source, e.Content, e.CreatedAt.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to save journal entry: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns all entries.
func (s *JournalStore) List(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT id, source, content, created_at FROM entries ORDER BY created_at DESC, seq DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}

// Get returns the entry with id.
func (s *JournalStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, source, content, created_at FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// Delete removes the entry with id.
func (s *JournalStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of entries.
func (s *JournalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e       Entry
		created int64
	)
	if err := sc.Scan(&e.ID, &e.Source, &e.Content, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to read journal entry: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, nil
}

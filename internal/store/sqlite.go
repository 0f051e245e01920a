package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chat_entries (
        id TEXT PRIMARY KEY, -- UUID
        question TEXT NOT NULL,
        answer TEXT NOT NULL,
        selected_source TEXT,
        persona TEXT NOT NULL CHECK (persona IN ('technical', 'customer', 'common')),
        user_identity TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_chat_entries_user
        ON chat_entries (user_identity, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts the entry and assigns its server-side ID and creation time.
// The ID and timestamp are only set once the row is written; on any failure
// the entry stays unmarked, so callers never hand out an identifier for a row
// that does not exist. The chat log is insert-only; there are no update or
// delete methods.
func (s *SQLiteStore) Append(ctx context.Context, entry *ChatEntry) error {
	id := uuid.NewString()
	now := time.Now()

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO chat_entries (id, question, answer, selected_source, persona, user_identity, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chat entry insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, id, entry.Question, entry.Answer, entry.SelectedSource, entry.Persona, entry.UserIdentity, now)
	if err != nil {
		return fmt.Errorf("failed to execute chat entry insert: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	return nil
}

func (s *SQLiteStore) ListEntriesByUser(ctx context.Context, userIdentity string, limit int) ([]ChatEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, question, answer, selected_source, persona, user_identity, created_at FROM chat_entries WHERE user_identity = ? ORDER BY created_at DESC LIMIT ?", userIdentity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat entries: %w", err)
	}
	defer rows.Close()

	var entries []ChatEntry
	for rows.Next() {
		var entry ChatEntry
		var source sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &source, &entry.Persona, &entry.UserIdentity, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat entry row: %w", err)
		}
		if source.Valid {
			entry.SelectedSource = &source.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	conversation_id TEXT PRIMARY KEY,
	last_link       TEXT NOT NULL DEFAULT '',
	last_course     TEXT NOT NULL DEFAULT '',
	updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore persists sessions in a SQLite database so conversation
// context survives restarts.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (or creates) the session database and
// initializes the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create session db directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	// WAL mode so reads don't block the write path.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping session db: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize session schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Get returns the session for the conversation.
func (s *SQLiteStore) Get(ctx context.Context, conversationID string) (Session, error) {
	var sess Session
	err := s.conn.QueryRowContext(ctx,
		"SELECT last_link, last_course FROM sessions WHERE conversation_id = ?",
		conversationID,
	).Scan(&sess.LastLink, &sess.LastCourse)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %q: %w", conversationID, err)
	}
	return sess, nil
}

// SetLastLink records the most recent enrollment link.
func (s *SQLiteStore) SetLastLink(ctx context.Context, conversationID, link string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO sessions (conversation_id, last_link, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (conversation_id)
		DO UPDATE SET last_link = excluded.last_link, updated_at = CURRENT_TIMESTAMP`,
		conversationID, link,
	)
	if err != nil {
		return fmt.Errorf("set last link for %q: %w", conversationID, err)
	}
	return nil
}

// SetLastCourse records the most recent course title.
func (s *SQLiteStore) SetLastCourse(ctx context.Context, conversationID, title string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO sessions (conversation_id, last_course, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (conversation_id)
		DO UPDATE SET last_course = excluded.last_course, updated_at = CURRENT_TIMESTAMP`,
		conversationID, title,
	)
	if err != nil {
		return fmt.Errorf("set last course for %q: %w", conversationID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

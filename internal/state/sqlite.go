package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLiteStore keeps every saved output of a stack in a local database.
// Load returns the newest one; destroy marks all of them as destroyed
// while keeping them in the history.
type SQLiteStore struct {
	db    *sql.DB
	stack string
}

// OpenSQLiteStore opens or creates the database at path.
func OpenSQLiteStore(path, stack string) (*SQLiteStore, error) {
	if path != memoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, stack: stack}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS applies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stack TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		data JSON NOT NULL,
		destroyed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_applies_stack ON applies(stack, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (*Outputs, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM applies
		WHERE stack = ? AND destroyed = 0
		ORDER BY id DESC LIMIT 1
	`, s.stack).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stack %s: %w", s.stack, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	return decodeJSON(data)
}

func (s *SQLiteStore) Save(ctx context.Context, out *Outputs) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	savedAt := out.UpdatedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applies (stack, saved_at, data) VALUES (?, ?, ?)
	`, s.stack, savedAt.UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("failed to insert state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE applies SET destroyed = 1 WHERE stack = ?`, s.stack); err != nil {
		return fmt.Errorf("failed to mark state destroyed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History(ctx context.Context, limit int) ([]*Outputs, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM applies
		WHERE stack = ?
		ORDER BY id DESC LIMIT ?
	`, s.stack, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []*Outputs
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		out, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		history = append(history, out)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeJSON(data []byte) (*Outputs, error) {
	var out Outputs
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &out, nil
}

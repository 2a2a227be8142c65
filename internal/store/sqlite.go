// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Persists settings with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed; ":memory:" opens an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == ":memory:" {
		// Every new connection would see a fresh empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			group_name TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (group_name, key)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetSetting retrieves a setting by group and key.
func (s *SQLiteStore) GetSetting(ctx context.Context, group, key string) (*Setting, error) {
	var st Setting
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT group_name, key, value, updated_at
		FROM settings WHERE group_name = ? AND key = ?
	`, group, key).Scan(&st.Group, &st.Key, &st.Value, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying setting %s.%s: %w", group, key, err)
	}

	st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &st, nil
}

// SetSetting creates or updates a setting.
func (s *SQLiteStore) SetSetting(ctx context.Context, setting *Setting) error {
	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (group_name, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(group_name, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, setting.Group, setting.Key, setting.Value, setting.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving setting %s.%s: %w", setting.Group, setting.Key, err)
	}
	return nil
}

// ListSettings returns all settings in a group ordered by key.
func (s *SQLiteStore) ListSettings(ctx context.Context, group string) ([]*Setting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_name, key, value, updated_at
		FROM settings WHERE group_name = ?
		ORDER BY key
	`, group)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var out []*Setting
	for rows.Next() {
		var st Setting
		var updatedAt string
		if err := rows.Scan(&st.Group, &st.Key, &st.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, &st)
	}
	return out, rows.Err()
}

// DeleteSetting removes a setting.
func (s *SQLiteStore) DeleteSetting(ctx context.Context, group, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE group_name = ? AND key = ?`, group, key)
	if err != nil {
		return fmt.Errorf("deleting setting %s.%s: %w", group, key, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Package sqlite persists users, the conversation log and the seeded
// character reference table in a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/okadapy/persona-bot/internal/model"
)

type Storage struct {
	db *sql.DB
}

func NewStorage(dataSourceName string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(dataSourceName, ":memory:") {
		// A pooled connection would get its own empty in-memory DB.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &Storage{db: db}
	if err = storage.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return storage, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL,
		name TEXT NOT NULL,
		surname TEXT,
		character TEXT NOT NULL,
		registered_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER NOT NULL,
		from_user INTEGER NOT NULL,
		text TEXT NOT NULL,
		time DATETIME NOT NULL,
		PRIMARY KEY (id, from_user),
		FOREIGN KEY (from_user) REFERENCES users (id)
	);

	CREATE TABLE IF NOT EXISTS replies (
		id TEXT PRIMARY KEY,
		to_message INTEGER NOT NULL,
		text TEXT NOT NULL,
		time DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS characters (
		name TEXT PRIMARY KEY,
		greeting_text TEXT NOT NULL,
		system_prompt TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SeedPersonas inserts the built-in character set. Existing rows are
// left untouched, so redeploys don't clobber edited prompts.
func (s *Storage) SeedPersonas(ctx context.Context, personas []model.Persona) error {
	stmt, err := s.db.PrepareContext(
		ctx, "INSERT OR IGNORE INTO characters (name, greeting_text, system_prompt) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare characters insert: %w", err)
	}
	defer stmt.Close()

	for _, persona := range personas {
		if _, err = stmt.ExecContext(ctx, persona.Name, persona.GreetingText, persona.SystemPrompt); err != nil {
			return fmt.Errorf("failed to seed character %q: %w", persona.Name, err)
		}
	}
	return nil
}

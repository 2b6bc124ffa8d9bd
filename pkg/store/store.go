// Package store persists imported games in SQLite. It is the producer
// side of the pipeline: games go in once at import time, and the graph
// builder reads them back as move sequences.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath. WAL mode keeps
// imports from blocking readers; foreign keys guard the moves table.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the tables if they don't exist.
func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS games (
		game_id   TEXT PRIMARY KEY,
		white     TEXT NOT NULL,
		black     TEXT NOT NULL,
		result    TEXT NOT NULL CHECK (result IN ('win', 'loss', 'draw')),
		played_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moves (
		game_id TEXT NOT NULL REFERENCES games(game_id) ON DELETE CASCADE,
		ply     INTEGER NOT NULL,
		san     TEXT NOT NULL,
		fen     TEXT NOT NULL,
		PRIMARY KEY (game_id, ply)
	);

	CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at);
	CREATE INDEX IF NOT EXISTS idx_moves_fen ON moves(fen);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

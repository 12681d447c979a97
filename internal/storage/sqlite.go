// Package storage provides SQLite-based persistence for Threes carts:
// the 256-slot memory image of each cart and its finished-game scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultCart is the cart name used when none is given.
const DefaultCart = "default"

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	claimed map[string]bool // carts with a live game in this process
}

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64
	Cart      string
	Score     int
	BestTile  int
	CreatedAt time.Time
}

// CartStats contains aggregated statistics for a cart.
type CartStats struct {
	Cart       string
	GamesCount int
	HighScore  int
	BestTile   int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, claimed: make(map[string]bool)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS memory (
			cart TEXT NOT NULL,
			slot INTEGER NOT NULL,
			value INTEGER NOT NULL,
			PRIMARY KEY (cart, slot)
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cart TEXT NOT NULL,
			score INTEGER NOT NULL,
			best_tile INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_cart ON scores(cart);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(cart, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game for the given cart.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(cart string, score, bestTile int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (cart, score, best_tile) VALUES (?, ?, ?)",
		cart, score, bestTile,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given cart, best first.
// A non-positive limit returns every score.
func (s *Store) TopScores(cart string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.Query(
		`SELECT id, cart, score, best_tile, created_at
		 FROM scores
		 WHERE cart = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		cart, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Cart, &e.Score, &e.BestTile, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest recorded score for the given cart.
// Returns 0 if no scores exist.
func (s *Store) HighScore(cart string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE cart = ?",
		cart,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given cart.
func (s *Store) ClearScores(cart string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE cart = ?", cart)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Carts lists every cart that has a memory image or a score, sorted by name.
func (s *Store) Carts() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT cart FROM memory
		 UNION
		 SELECT cart FROM scores
		 ORDER BY cart`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list carts: %w", err)
	}
	defer rows.Close()

	var carts []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		carts = append(carts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return carts, nil
}

// Stats retrieves aggregated statistics for a cart.
func (s *Store) Stats(cart string) (*CartStats, error) {
	stats := &CartStats{Cart: cart}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(best_tile), 0), COALESCE(AVG(score), 0)
		 FROM scores WHERE cart = ?`,
		cart,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.BestTile, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get cart stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE cart = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		cart,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles both driver-decoded times and raw SQLite text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Package storage provides SQLite-based persistence for round results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only finished rounds are recorded; game state is never saved.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for round history.
type Store struct {
	db *sql.DB
}

// RoundResult is the record of one finished round.
type RoundResult struct {
	ID        int64
	RoundID   string // UUID assigned when the round started
	Variant   string
	Player    string // SSH user, or empty for local play
	Moves     int
	Merges    int
	Duration  time.Duration
	CreatedAt time.Time
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant      string
	Rounds       int
	BestMoves    int
	AvgMoves     float64
	BestDuration time.Duration
	TotalTime    time.Duration
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			variant TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL,
			merges INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_variant ON rounds(variant);
		CREATE INDEX IF NOT EXISTS idx_rounds_best ON rounds(variant, moves, duration_ms);
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

// SaveRound records a finished round.
// Returns the ID of the inserted record.
func (s *Store) SaveRound(r RoundResult) (int64, error) {
	if r.RoundID == "" || r.Variant == "" {
		return 0, fmt.Errorf("storage: round id and variant are required")
	}

	result, err := s.db.Exec(
		`INSERT INTO rounds (round_id, variant, player, moves, merges, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RoundID, r.Variant, r.Player, r.Moves, r.Merges, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestRounds retrieves the best N rounds of a variant: fewest moves first,
// then fastest.
func (s *Store) BestRounds(variant string, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, round_id, variant, player, moves, merges, duration_ms, created_at
		 FROM rounds
		 WHERE variant = ?
		 ORDER BY moves ASC, duration_ms ASC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	return scanRounds(rows)
}

// RecentRounds retrieves the most recent rounds. An empty variant matches
// every variant.
func (s *Store) RecentRounds(variant string, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, round_id, variant, player, moves, merges, duration_ms, created_at
		 FROM rounds
		 WHERE ? = '' OR variant = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	return scanRounds(rows)
}

// RoundByID retrieves a round by its round ID.
// Returns nil if it does not exist.
func (s *Store) RoundByID(roundID string) (*RoundResult, error) {
	rows, err := s.db.Query(
		`SELECT id, round_id, variant, player, moves, merges, duration_ms, created_at
		 FROM rounds
		 WHERE round_id = ?`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round: %w", err)
	}
	results, err := scanRounds(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func scanRounds(rows *sql.Rows) ([]RoundResult, error) {
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var r RoundResult
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.RoundID, &r.Variant, &r.Player, &r.Moves, &r.Merges, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = parseTimestamp(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTimestamp handles both time.Time and string datetimes.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ClearRounds deletes all rounds of the given variant.
func (s *Store) ClearRounds(variant string) error {
	_, err := s.db.Exec("DELETE FROM rounds WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

// GetVariantStats retrieves aggregated statistics for a variant.
func (s *Store) GetVariantStats(variant string) (*VariantStats, error) {
	stats := &VariantStats{Variant: variant}

	var bestMs, totalMs int64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(moves), 0), COALESCE(AVG(moves), 0),
		        COALESCE(MIN(duration_ms), 0), COALESCE(SUM(duration_ms), 0)
		 FROM rounds WHERE variant = ?`,
		variant,
	).Scan(&stats.Rounds, &stats.BestMoves, &stats.AvgMoves, &bestMs, &totalMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get variant stats: %w", err)
	}
	stats.BestDuration = time.Duration(bestMs) * time.Millisecond
	stats.TotalTime = time.Duration(totalMs) * time.Millisecond

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM rounds WHERE variant = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		variant,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllVariantStats retrieves statistics for every variant that has been
// played.
func (s *Store) GetAllVariantStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), MIN(moves), AVG(moves), MIN(duration_ms), SUM(duration_ms), MAX(created_at)
		 FROM rounds
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all variant stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var vs VariantStats
		var bestMs, totalMs int64
		var lastPlayed any
		if err := rows.Scan(&vs.Variant, &vs.Rounds, &vs.BestMoves, &vs.AvgMoves, &bestMs, &totalMs, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		vs.BestDuration = time.Duration(bestMs) * time.Millisecond
		vs.TotalTime = time.Duration(totalMs) * time.Millisecond
		vs.LastPlayed = parseTimestamp(lastPlayed)
		stats[vs.Variant] = &vs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

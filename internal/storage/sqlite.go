// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished (or interrupted) simulation run.
type RunRecord struct {
	ID         int64
	Scenario   string
	Seed       int64
	Difficulty string
	Duration   float64 // Simulated seconds
	Waves      int
	Spawned    int
	Killed     int
	Leaked     int
	Drops      int            // Total items dropped
	Items      map[string]int // Per-item drop counts, only set by SaveRun input and RunDrops
	CreatedAt  time.Time
}

// ScenarioStats contains aggregated statistics for one scenario.
type ScenarioStats struct {
	Scenario   string
	Runs       int
	Killed     int
	Leaked     int
	BestKilled int
	LastRun    time.Time
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'normal',
			duration REAL NOT NULL DEFAULT 0,
			waves INTEGER NOT NULL DEFAULT 0,
			spawned INTEGER NOT NULL DEFAULT 0,
			killed INTEGER NOT NULL DEFAULT 0,
			leaked INTEGER NOT NULL DEFAULT 0,
			drops INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(scenario, killed DESC, leaked ASC);

		CREATE TABLE IF NOT EXISTS run_drops (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			item TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, item)
		);
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

// SaveRun records a run and its per-item drops in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(run RunRecord) (int64, error) {
	if run.Difficulty == "" {
		run.Difficulty = "normal"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (scenario, seed, difficulty, duration, waves, spawned, killed, leaked, drops)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Scenario, run.Seed, run.Difficulty, run.Duration,
		run.Waves, run.Spawned, run.Killed, run.Leaked, run.Drops,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	items := make([]string, 0, len(run.Items))
	for item := range run.Items {
		items = append(items, item)
	}
	sort.Strings(items)
	for _, item := range items {
		if _, err := tx.Exec(
			"INSERT INTO run_drops (run_id, item, count) VALUES (?, ?, ?)",
			id, item, run.Items[item],
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save drops: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, scenario, seed, difficulty, duration, waves, spawned, killed, leaked, drops, created_at`

// RecentRuns retrieves the newest runs, optionally filtered by scenario.
// An empty scenario matches every run.
func (s *Store) RecentRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns retrieves the runs with the most kills for a scenario.
// Ties are broken by fewer leaks, then by the earlier run.
func (s *Store) BestRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario = ?
		 ORDER BY killed DESC, leaked ASC, id ASC
		 LIMIT ?`,
		scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.Seed,
			&r.Difficulty,
			&r.Duration,
			&r.Waves,
			&r.Spawned,
			&r.Killed,
			&r.Leaked,
			&r.Drops,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
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

// Run retrieves one run with its per-item drops.
// Returns nil if the run does not exist.
func (s *Store) Run(id int64) (*RunRecord, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}

	run := runs[0]
	if run.Items, err = s.RunDrops(id); err != nil {
		return nil, err
	}
	return &run, nil
}

// RunDrops returns the per-item drop counts of a run.
func (s *Store) RunDrops(runID int64) (map[string]int, error) {
	rows, err := s.db.Query("SELECT item, count FROM run_drops WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query drops: %w", err)
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var item string
		var count int
		if err := rows.Scan(&item, &count); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		items[item] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return items, nil
}

// RunCount returns the number of stored runs for a scenario, or all runs if empty.
func (s *Store) RunCount(scenario string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM runs WHERE ? = '' OR scenario = ?",
		scenario, scenario,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// ClearRuns deletes all runs and drops for the given scenario.
func (s *Store) ClearRuns(scenario string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM run_drops WHERE run_id IN (SELECT id FROM runs WHERE scenario = ?)",
		scenario,
	); err != nil {
		return fmt.Errorf("storage: cannot clear drops: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE scenario = ?", scenario); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return tx.Commit()
}

// ScenarioStats retrieves aggregated statistics for a scenario.
func (s *Store) ScenarioStats(scenario string) (*ScenarioStats, error) {
	stats := &ScenarioStats{Scenario: scenario}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(killed), 0), COALESCE(SUM(leaked), 0), COALESCE(MAX(killed), 0)
		 FROM runs WHERE scenario = ?`,
		scenario,
	).Scan(&stats.Runs, &stats.Killed, &stats.Leaked, &stats.BestKilled)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scenario = ? ORDER BY id DESC LIMIT 1`,
		scenario,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

// Package storage provides SQLite-based persistence for training runs.
// The pure-Go modernc.org/sqlite driver keeps the binary CGO-free.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunEntry is one training run: a sequence of episodes on a single map.
type RunEntry struct {
	ID          int64
	Map         string
	Generations int     // Episodes finished
	Wins        int     // Episodes that reached the goal
	TotalReward float64 // Reward summed over the whole run
	States      int     // Final Q-table size
	Epsilon     float64 // Final exploration rate
	BestSteps   int     // Fastest completion in ticks, 0 when the run never won
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while the run is still open
}

// RunSummary carries the final counters written when a run closes.
type RunSummary struct {
	Generations int
	Wins        int
	TotalReward float64
	States      int
	Epsilon     float64
	BestSteps   int // 0 when the run never won
}

// EpisodeRecord is one finished episode inside a run.
type EpisodeRecord struct {
	Generation int
	Steps      int
	Reward     float64
	Coins      int
	Won        bool
	Died       bool
	Epsilon    float64
}

// MapStats aggregates every recorded run on one map.
type MapStats struct {
	Map         string
	Runs        int
	Generations int
	Wins        int
	BestSteps   int // Fastest completion across all runs, 0 when none
	AvgReward   float64
	LastTrained time.Time
}

// Open opens (or creates) the run history database at dbPath, creating
// parent directories and applying the schema. A leading ~ resolves to the
// user's home directory.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, strings.TrimPrefix(dbPath, "~"))
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
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

// migrate creates the runs and episodes tables on first open.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			map TEXT NOT NULL,
			generations INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			total_reward REAL NOT NULL DEFAULT 0,
			states INTEGER NOT NULL DEFAULT 0,
			epsilon REAL NOT NULL DEFAULT 0,
			best_steps INTEGER,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_map ON runs(map);
		CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			reward REAL NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			died INTEGER NOT NULL DEFAULT 0,
			epsilon REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_wins ON episodes(run_id, won, steps);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun opens a new run on the given map and returns its ID.
func (s *Store) CreateRun(mapName string) (int64, error) {
	result, err := s.db.Exec("INSERT INTO runs (map) VALUES (?)", mapName)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// FinishRun writes the final counters for a run and stamps its end time.
func (s *Store) FinishRun(runID int64, summary RunSummary) error {
	var bestSteps any
	if summary.BestSteps > 0 {
		bestSteps = summary.BestSteps
	}

	_, err := s.db.Exec(
		`UPDATE runs
		 SET generations = ?, wins = ?, total_reward = ?, states = ?, epsilon = ?,
		     best_steps = ?, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		summary.Generations, summary.Wins, summary.TotalReward,
		summary.States, summary.Epsilon, bestSteps, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run %d: %w", runID, err)
	}
	return nil
}

// RecordEpisode appends one finished episode to a run.
func (s *Store) RecordEpisode(runID int64, ep EpisodeRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (run_id, generation, steps, reward, coins, won, died, epsilon)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ep.Generation, ep.Steps, ep.Reward, ep.Coins,
		boolToInt(ep.Won), boolToInt(ep.Died), ep.Epsilon,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recently started runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, map, generations, wins, total_reward, states, epsilon,
		        best_steps, started_at, finished_at
		 FROM runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// BestRuns retrieves the runs with the fastest completions, fastest first.
// An empty mapName matches every map. Runs that never won are excluded.
func (s *Store) BestRuns(mapName string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, map, generations, wins, total_reward, states, epsilon,
		        best_steps, started_at, finished_at
		 FROM runs
		 WHERE best_steps IS NOT NULL AND (? = '' OR map = ?)
		 ORDER BY best_steps ASC
		 LIMIT ?`,
		mapName, mapName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Maps retrieves the distinct map names that have recorded runs, sorted.
func (s *Store) Maps() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT map FROM runs ORDER BY map`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query maps: %w", err)
	}
	defer rows.Close()

	var maps []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		maps = append(maps, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return maps, nil
}

// RunEpisodes retrieves the last episodes of a run, newest first.
func (s *Store) RunEpisodes(runID int64, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT generation, steps, reward, coins, won, died, epsilon
		 FROM episodes
		 WHERE run_id = ?
		 ORDER BY generation DESC
		 LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []EpisodeRecord
	for rows.Next() {
		var ep EpisodeRecord
		var won, died int
		if err := rows.Scan(&ep.Generation, &ep.Steps, &ep.Reward, &ep.Coins, &won, &died, &ep.Epsilon); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ep.Won = won == 1
		ep.Died = died == 1
		episodes = append(episodes, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return episodes, nil
}

// RunStats aggregates every recorded run on the given map.
func (s *Store) RunStats(mapName string) (*MapStats, error) {
	stats := &MapStats{Map: mapName}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(generations), 0), COALESCE(SUM(wins), 0),
		        COALESCE(MIN(best_steps), 0), COALESCE(AVG(total_reward), 0)
		 FROM runs WHERE map = ?`,
		mapName,
	).Scan(&stats.Runs, &stats.Generations, &stats.Wins, &stats.BestSteps, &stats.AvgReward)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastTrained any
	err = s.db.QueryRow(
		`SELECT started_at FROM runs WHERE map = ? ORDER BY started_at DESC LIMIT 1`,
		mapName,
	).Scan(&lastTrained)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last trained: %w", err)
	}
	if err == nil {
		stats.LastTrained = scanTime(lastTrained)
	}

	return stats, nil
}

// scanRuns reads RunEntry rows from a query over the runs table.
func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var bestSteps sql.NullInt64
		var startedAt, finishedAt any

		if err := rows.Scan(&e.ID, &e.Map, &e.Generations, &e.Wins, &e.TotalReward,
			&e.States, &e.Epsilon, &bestSteps, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if bestSteps.Valid {
			e.BestSteps = int(bestSteps.Int64)
		}
		e.StartedAt = scanTime(startedAt)
		e.FinishedAt = scanTime(finishedAt)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// scanTime converts a scanned datetime column, which the driver may hand
// back as time.Time or string, into a time.Time.
func scanTime(v any) time.Time {
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

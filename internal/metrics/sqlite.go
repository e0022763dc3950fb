package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/voxroute/voxroute/pkg/models"
)

// PersistentStore wraps a Store with SQLite-backed persistence so worker
// history survives process restarts. Counters are flushed on demand and
// loaded once at startup.
type PersistentStore struct {
	*Store
	db     *sql.DB
	dbPath string
}

// DefaultDBPath returns the default location for the metrics database.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "voxroute", "metrics.db")
}

// OpenPersistentStore opens (or creates) the metrics database at dbPath,
// migrates the schema, and loads any previously persisted counters.
func OpenPersistentStore(dbPath string) (*PersistentStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for concurrent reads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	ps := &PersistentStore{
		Store:  NewStore(),
		db:     conn,
		dbPath: dbPath,
	}
	if err := ps.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate metrics schema: %w", err)
	}
	if err := ps.load(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("load persisted metrics: %w", err)
	}
	return ps, nil
}

// migrate creates the metrics table if it doesn't exist.
func (ps *PersistentStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS worker_metrics (
			worker_id TEXT PRIMARY KEY,
			total_tasks INTEGER NOT NULL,
			completed_tasks INTEGER NOT NULL,
			failed_tasks INTEGER NOT NULL,
			avg_response_time_ms REAL NOT NULL,
			success_rate REAL NOT NULL,
			last_updated DATETIME NOT NULL
		)
	`)
	return err
}

// load seeds the in-memory store from the database.
func (ps *PersistentStore) load() error {
	rows, err := ps.db.Query(`
		SELECT worker_id, total_tasks, completed_tasks, failed_tasks,
		       avg_response_time_ms, success_rate, last_updated
		FROM worker_metrics
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.WorkerMetrics
		var lastUpdated string
		if err := rows.Scan(&m.WorkerID, &m.TotalTasks, &m.CompletedTasks, &m.FailedTasks,
			&m.AverageResponseTimeMs, &m.SuccessRate, &lastUpdated); err != nil {
			return err
		}
		if ts, err := time.Parse(time.RFC3339Nano, lastUpdated); err == nil {
			m.LastUpdated = ts
		}
		ps.restore(m)
	}
	return rows.Err()
}

// Flush writes every worker's current counters to the database.
func (ps *PersistentStore) Flush() error {
	snapshot := ps.GetAll()

	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("begin metrics flush: %w", err)
	}

	for _, m := range snapshot {
		_, err := tx.Exec(`
			INSERT INTO worker_metrics
				(worker_id, total_tasks, completed_tasks, failed_tasks,
				 avg_response_time_ms, success_rate, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(worker_id) DO UPDATE SET
				total_tasks = excluded.total_tasks,
				completed_tasks = excluded.completed_tasks,
				failed_tasks = excluded.failed_tasks,
				avg_response_time_ms = excluded.avg_response_time_ms,
				success_rate = excluded.success_rate,
				last_updated = excluded.last_updated
		`, m.WorkerID, m.TotalTasks, m.CompletedTasks, m.FailedTasks,
			m.AverageResponseTimeMs, m.SuccessRate, m.LastUpdated.Format(time.RFC3339Nano))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("flush metrics for %s: %w", m.WorkerID, err)
		}
	}
	return tx.Commit()
}

// Reset clears both in-memory counters and the persisted rows.
func (ps *PersistentStore) Reset() error {
	ps.Store.Reset()
	if _, err := ps.db.Exec("DELETE FROM worker_metrics"); err != nil {
		return fmt.Errorf("reset persisted metrics: %w", err)
	}
	return nil
}

// Close flushes outstanding counters and closes the database.
func (ps *PersistentStore) Close() error {
	if err := ps.Flush(); err != nil {
		ps.db.Close()
		return err
	}
	return ps.db.Close()
}

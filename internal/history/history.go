// Package history is an additive, non-core telemetry sample log backed by
// sqlite. It exists purely so operators' benchmarking tools can query
// trend data; it is never the source of truth for live miner state and
// losing it on restart is expected (SPEC_FULL.md §4.6). FleetRuntime
// treats it as an optional Recorder — a nil Recorder disables this
// entirely and the simulation behaves exactly as spec.md describes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/asicfleet/simulator/internal/telemetry"
)

const schema = `
CREATE TABLE IF NOT EXISTS telemetry_samples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	miner_id TEXT NOT NULL,
	ts REAL NOT NULL,
	hash_rate REAL NOT NULL,
	temp REAL NOT NULL,
	power REAL NOT NULL,
	error_pct REAL NOT NULL,
	pool_state TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_telemetry_samples_miner_ts ON telemetry_samples(miner_id, ts);
`

// Store is a sqlite-backed append-only log of telemetry samples.
type Store struct {
	db       *sql.DB
	sampleCh chan []telemetry.Snapshot
	done     chan struct{}
}

// Open creates or opens the sqlite database at path (":memory:" is valid
// for tests) and starts the background writer goroutine. Writes never
// happen inline with Record so the fleet's tick loop is never blocked on
// disk I/O (spec §5: no lock held across I/O).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}

	s := &Store{
		db:       db,
		sampleCh: make(chan []telemetry.Snapshot, 64),
		done:     make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

// Record implements fleet.Recorder. It never blocks the caller on disk
// I/O: batches are handed to a buffered channel drained by a background
// goroutine, and are dropped (not queued unboundedly) if that goroutine
// falls behind.
func (s *Store) Record(batch []telemetry.Snapshot) {
	select {
	case s.sampleCh <- batch:
	default:
		// Writer is behind; drop this batch rather than blocking the tick
		// loop or growing memory unboundedly.
	}
}

func (s *Store) writeLoop() {
	defer close(s.done)
	for batch := range s.sampleCh {
		if err := s.insertBatch(batch); err != nil {
			continue
		}
	}
}

func (s *Store) insertBatch(batch []telemetry.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO telemetry_samples
		(miner_id, ts, hash_rate, temp, power, error_pct, pool_state)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, snap := range batch {
		if _, err := stmt.Exec(snap.MinerID, snap.Timestamp, snap.HashRate, snap.Temp, snap.Power, snap.ErrorPercentage, snap.PoolState); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Samples returns every recorded sample for a miner between [sinceUnix,
// untilUnix], ordered by timestamp ascending.
func (s *Store) Samples(ctx context.Context, minerID string, sinceUnix, untilUnix float64) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ts, hash_rate, temp, power, error_pct, pool_state
		FROM telemetry_samples WHERE miner_id = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC`,
		minerID, sinceUnix, untilUnix)
	if err != nil {
		return nil, fmt.Errorf("history: query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.Timestamp, &sm.HashRate, &sm.Temp, &sm.Power, &sm.ErrorPercentage, &sm.PoolState); err != nil {
			return nil, fmt.Errorf("history: scan sample: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Sample is one recorded telemetry row.
type Sample struct {
	Timestamp       float64 `json:"timestamp"`
	HashRate        float64 `json:"hashRate"`
	Temp            float64 `json:"temp"`
	Power           float64 `json:"power"`
	ErrorPercentage float64 `json:"errorPercentage"`
	PoolState       string  `json:"poolState"`
}

// Close stops the writer goroutine and closes the database, waiting up to
// 2s for any buffered batches to drain.
func (s *Store) Close() error {
	close(s.sampleCh)
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
	return s.db.Close()
}

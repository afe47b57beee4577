package record

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
)

// SQLiteRecorder persists summaries to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Debugf("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                 TEXT PRIMARY KEY,
			created_at         INTEGER NOT NULL,
			seed               INTEGER NOT NULL,
			config_json        TEXT NOT NULL,
			initial_index      REAL,
			initial_multiplier REAL,
			target_multiplier  REAL,
			policy_years       INTEGER,
			final_baseline     REAL,
			final_policy       REAL,
			difference         REAL,
			non_positive_steps INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS batches (
			id                TEXT PRIMARY KEY,
			created_at        INTEGER NOT NULL,
			seed              INTEGER NOT NULL,
			runs              INTEGER NOT NULL,
			config_json       TEXT NOT NULL,
			mean_difference   REAL,
			p5_difference     REAL,
			p95_difference    REAL,
			prob_policy_above REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the summary of res and returns the generated run ID.
func (r *SQLiteRecorder) RecordRun(seed int64, res *sim.Result) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfgJSON, err := json.Marshal(res.Config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	id := uuid.NewString()
	s := res.Summary
	_, err = r.db.Exec(`INSERT INTO runs
		(id, created_at, seed, config_json, initial_index, initial_multiplier, target_multiplier,
		 policy_years, final_baseline, final_policy, difference, non_positive_steps)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, time.Now().UnixNano(), seed, string(cfgJSON),
		s.InitialIndexLevel, s.InitialMultiplier, s.TargetMultiplier, s.PolicyYears,
		s.FinalBaseline, s.FinalPolicy, s.Difference, s.NonPositiveSteps,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordBatch stores the aggregate of res and returns the generated batch ID.
func (r *SQLiteRecorder) RecordBatch(res *batch.BatchResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfgJSON, err := json.Marshal(res.Config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	id := uuid.NewString()
	_, err = r.db.Exec(`INSERT INTO batches
		(id, created_at, seed, runs, config_json, mean_difference, p5_difference, p95_difference, prob_policy_above)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		id, time.Now().UnixNano(), res.Batch.Seed, res.Batch.Runs, string(cfgJSON),
		res.Difference.Mean, res.Difference.P5, res.Difference.P95, res.ProbPolicyAbove,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := r.db.Query(`SELECT id, created_at, seed, config_json,
		final_baseline, final_policy, difference, non_positive_steps
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec     RunRecord
			created int64
			cfgJSON string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.Seed, &cfgJSON,
			&rec.Summary.FinalBaseline, &rec.Summary.FinalPolicy, &rec.Summary.Difference,
			&rec.Summary.NonPositiveSteps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
			return nil, fmt.Errorf("decode config of run %s: %w", rec.ID, err)
		}
		rec.CreatedAt = time.Unix(0, created)
		rec.Summary.InitialIndexLevel = rec.Config.InitialIndexLevel
		rec.Summary.InitialMultiplier = rec.Config.InitialMultiplier
		rec.Summary.TargetMultiplier = rec.Config.TargetMultiplier
		rec.Summary.PolicyYears = rec.Config.PolicyYears
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListBatches returns up to limit batches, newest first.
func (r *SQLiteRecorder) ListBatches(limit int) ([]BatchRecord, error) {
	rows, err := r.db.Query(`SELECT id, created_at, seed, runs, config_json,
		mean_difference, p5_difference, p95_difference, prob_policy_above
		FROM batches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchRecord
	for rows.Next() {
		var (
			rec     BatchRecord
			created int64
			cfgJSON string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.Batch.Seed, &rec.Batch.Runs, &cfgJSON,
			&rec.MeanDifference, &rec.P5Difference, &rec.P95Difference, &rec.ProbPolicyAbove); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
			return nil, fmt.Errorf("decode config of batch %s: %w", rec.ID, err)
		}
		rec.CreatedAt = time.Unix(0, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	logrus.Debug("closing sqlite recorder")
	return r.db.Close()
}

// Package sqlite persists evaluation run results.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run represents one persisted evaluation run: the inputs, the aggregate
// error figures from both passes, and the estimator timing.
type Run struct {
	RunID              string          `json:"run_id"`
	TrackFile          string          `json:"track_file"`
	GroundTruthDir     string          `json:"ground_truth_dir"`
	Estimator          string          `json:"estimator"`
	RMS                float64         `json:"rms"`
	RMSWithinDistance  float64         `json:"rms_within_distance"`
	MaxDistanceMeters  float64         `json:"max_distance_meters"`
	FramePairs         int             `json:"frame_pairs"`
	MeanRuntimePerPair time.Duration   `json:"mean_runtime_per_pair_ns"`
	ParamsJSON         json.RawMessage `json:"params_json,omitempty"`
	CreatedAt          int64           `json:"created_at"`
}

// RunStore provides persistence for evaluation runs.
type RunStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a run database at the given path and
// ensures the schema exists.
func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}

	store := NewRunStore(db)
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewRunStore wraps an existing database connection. The caller is
// responsible for the schema; use Open for the common case.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS eval_runs (
			run_id                TEXT PRIMARY KEY,
			track_file            TEXT NOT NULL,
			ground_truth_dir      TEXT NOT NULL,
			estimator             TEXT NOT NULL,
			rms                   DOUBLE,
			rms_within_distance   DOUBLE,
			max_distance_meters   DOUBLE,
			frame_pairs           BIGINT,
			mean_runtime_ns       BIGINT,
			params_json           TEXT,
			created_at            BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_eval_runs_created_at
			ON eval_runs(created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create eval_runs schema: %w", err)
	}
	return nil
}

// Insert persists a run. If RunID is empty a UUID is generated; if CreatedAt
// is zero the current time is used.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	_, err := s.db.Exec(`
		INSERT INTO eval_runs (
			run_id, track_file, ground_truth_dir, estimator,
			rms, rms_within_distance, max_distance_meters,
			frame_pairs, mean_runtime_ns, params_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.TrackFile, run.GroundTruthDir, run.Estimator,
		run.RMS, run.RMSWithinDistance, run.MaxDistanceMeters,
		run.FramePairs, int64(run.MeanRuntimePerPair), paramsStr, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *RunStore) List(limit int) ([]*Run, error) {
	query := `
		SELECT run_id, track_file, ground_truth_dir, estimator,
			rms, rms_within_distance, max_distance_meters,
			frame_pairs, mean_runtime_ns, params_json, created_at
		FROM eval_runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var meanRuntimeNs int64
		var params sql.NullString
		if err := rows.Scan(
			&run.RunID, &run.TrackFile, &run.GroundTruthDir, &run.Estimator,
			&run.RMS, &run.RMSWithinDistance, &run.MaxDistanceMeters,
			&run.FramePairs, &meanRuntimeNs, &params, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.MeanRuntimePerPair = time.Duration(meanRuntimeNs)
		if params.Valid {
			run.ParamsJSON = json.RawMessage(params.String)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

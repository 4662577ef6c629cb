// Package metrics is an opt-in, local-only event store for usage and
// time-to-understanding measurements. A Recorder is passed explicitly
// to whoever records; a nil Recorder drops everything, so the engine
// never grows a dependency on process-wide state.
package metrics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"uf/internal/logging"
)

// Recorder persists events to a local SQLite database.
type Recorder struct {
	db     *sql.DB
	logger *logging.Logger
}

// TTUSummary aggregates time-to-understanding records per feature.
type TTUSummary struct {
	Feature     string  `json:"feature"`
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avg_duration_sec"`
	SuccessRate float64 `json:"success_rate"`
}

// Open opens or creates the metrics database at dbPath.
func Open(dbPath string, logger *logging.Logger) (*Recorder, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("cannot create metrics directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open metrics database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot configure metrics database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			properties TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ttu (
			id           TEXT PRIMARY KEY,
			feature      TEXT NOT NULL,
			duration_sec REAL NOT NULL,
			success      INTEGER NOT NULL,
			created_at   TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("cannot initialize metrics schema: %w", err)
		}
	}

	return &Recorder{db: db, logger: logger}, nil
}

// Close releases the underlying database. Nil safe.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// TrackEvent records a usage event. Nil safe; failures are logged and
// swallowed, metrics never break the pipeline.
func (r *Recorder) TrackEvent(kind string, properties map[string]interface{}) {
	if r == nil {
		return
	}
	props, err := json.Marshal(properties)
	if err != nil {
		props = []byte("{}")
	}
	_, err = r.db.Exec(
		"INSERT INTO events(id, kind, properties, created_at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), kind, string(props), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Debug("metrics event not recorded", map[string]interface{}{
			"kind": kind, "error": err.Error(),
		})
	}
}

// TrackTTU records a time-to-understanding measurement. Nil safe.
func (r *Recorder) TrackTTU(feature string, duration time.Duration, success bool) {
	if r == nil {
		return
	}
	_, err := r.db.Exec(
		"INSERT INTO ttu(id, feature, duration_sec, success, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), feature, duration.Seconds(), boolToInt(success),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Debug("ttu not recorded", map[string]interface{}{
			"feature": feature, "error": err.Error(),
		})
	}
}

// Summaries aggregates TTU records per feature over the given window.
func (r *Recorder) Summaries(since time.Time) ([]TTUSummary, error) {
	if r == nil {
		return nil, nil
	}
	rows, err := r.db.Query(`
		SELECT feature,
		       COUNT(*),
		       AVG(duration_sec),
		       AVG(success)
		FROM ttu
		WHERE created_at >= ?
		GROUP BY feature
		ORDER BY feature
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("ttu summary query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TTUSummary
	for rows.Next() {
		var s TTUSummary
		if err := rows.Scan(&s.Feature, &s.Count, &s.AvgDuration, &s.SuccessRate); err != nil {
			return nil, fmt.Errorf("ttu summary scan failed: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

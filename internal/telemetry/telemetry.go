// Package telemetry persists import timing records to a SQLite sink.
// The sink has an independent lifecycle from the main store: losing a
// timing record never affects import correctness, and writes are only
// ever made on a best-effort basis.
package telemetry

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Adamaq01/Tachi/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Sink writes import timing records to SQLite.
type Sink struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the telemetry sink at the given path, configuring WAL
// mode and running schema migration.
func Open(path string, logger *slog.Logger) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows one writer; keep the pool small.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Sink{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

// WriteTimings inserts one timing record. Stage maps are stored as JSON
// blobs; they are read back only by diagnostic tooling.
func (s *Sink) WriteTimings(ctx context.Context, timings *domain.ImportTimings) error {
	absJSON, err := json.Marshal(timings.Abs)
	if err != nil {
		return fmt.Errorf("marshal abs timings: %w", err)
	}
	relJSON, err := json.Marshal(timings.Rel)
	if err != nil {
		return fmt.Errorf("marshal rel timings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO import_timings (import_id, total_ms, abs_json, rel_json, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		timings.ImportID,
		timings.Total,
		string(absJSON),
		string(relJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert timing record: %w", err)
	}
	return nil
}

// GetTimings reads back the timing record for one import, for
// diagnostic tooling.
func (s *Sink) GetTimings(ctx context.Context, importID string) (*domain.ImportTimings, error) {
	var (
		timings domain.ImportTimings
		absJSON string
		relJSON string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT import_id, total_ms, abs_json, rel_json
		FROM import_timings WHERE import_id = ?`,
		importID,
	).Scan(&timings.ImportID, &timings.Total, &absJSON, &relJSON)
	if err != nil {
		return nil, fmt.Errorf("select timing record: %w", err)
	}

	if err := json.Unmarshal([]byte(absJSON), &timings.Abs); err != nil {
		return nil, fmt.Errorf("unmarshal abs timings: %w", err)
	}
	if err := json.Unmarshal([]byte(relJSON), &timings.Rel); err != nil {
		return nil, fmt.Errorf("unmarshal rel timings: %w", err)
	}

	return &timings, nil
}

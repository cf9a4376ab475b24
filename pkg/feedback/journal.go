// Package feedback persists training signals. Every human-corrected label is
// journaled before it reaches the network, so a model that had to fall back
// to fresh initialization (corrupted or version-mismatched snapshot) can
// replay its history and relearn prior corrections instead of starting cold.
package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/observability/logging"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS feedback (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	descriptor TEXT NOT NULL,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Journal is an append-only log of (descriptor, corrected label) pairs.
// Timestamps are stored as RFC3339Nano strings; modernc.org/sqlite gives
// TEXT affinity to date types anyway, and strings round-trip reliably.
type Journal struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) a journal database.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping feedback journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create feedback table: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle.
func (j *Journal) Close() error { return j.db.Close() }

// Record appends one training signal.
func (j *Journal) Record(ctx context.Context, d *features.FieldDescriptor, label string) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	_, err = j.db.ExecContext(ctx,
		"INSERT INTO feedback (descriptor, label, created_at) VALUES (?, ?, ?)",
		string(blob), label, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// Count returns the number of journaled signals.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n, nil
}

// Replay streams every journaled signal in insertion order into fn. A signal
// fn rejects (e.g. a label that has since left the taxonomy) is skipped and
// counted, not fatal; replay only aborts on storage errors.
func (j *Journal) Replay(ctx context.Context, fn func(d *features.FieldDescriptor, label string) error) (applied, skipped int, err error) {
	rows, err := j.db.QueryContext(ctx, "SELECT descriptor, label FROM feedback ORDER BY id")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob, label string
		if err := rows.Scan(&blob, &label); err != nil {
			return applied, skipped, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		var d features.FieldDescriptor
		if err := json.Unmarshal([]byte(blob), &d); err != nil {
			logging.Warnf("Skipping malformed journaled descriptor: %v", err)
			skipped++
			continue
		}
		if err := fn(&d, label); err != nil {
			skipped++
			continue
		}
		applied++
	}
	if err := rows.Err(); err != nil {
		return applied, skipped, fmt.Errorf("failed to iterate feedback rows: %w", err)
	}
	return applied, skipped, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emirozbir/alert-receiver/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS alert_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	received_at TEXT NOT NULL,
	name TEXT NOT NULL,
	severity TEXT NOT NULL,
	status TEXT NOT NULL,
	description TEXT NOT NULL,
	raw_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alert_events_severity ON alert_events(severity);
CREATE INDEX IF NOT EXISTS idx_alert_events_name ON alert_events(name);
`

// DB is the append-only audit log of accepted alerts. Rows are only ever
// inserted; seq preserves the order in which the service accepted them.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; the service serializes appends anyway.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// AppendEvent writes one accepted event to the log.
func (db *DB) AppendEvent(ctx context.Context, ev models.AlertEvent) error {
	raw := string(ev.Raw)
	if raw == "" {
		raw = "{}"
	}

	query := `
		INSERT INTO alert_events (
			id, received_at, name, severity, status, description, raw_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.conn.ExecContext(ctx, query,
		ev.ID,
		ev.ReceivedAt.UTC().Format(time.RFC3339Nano),
		ev.Name,
		string(ev.Severity),
		ev.Status,
		ev.Description,
		raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert event: %w", err)
	}
	return nil
}

// RecentEvents returns the newest limit events in insertion order, oldest
// first, so they can be replayed into the in-memory history. limit <= 0
// returns every event.
func (db *DB) RecentEvents(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	query := `
		SELECT id, received_at, name, severity, status, description, raw_json
		FROM (
			SELECT seq, id, received_at, name, severity, status, description, raw_json
			FROM alert_events
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var events []models.AlertEvent
	for rows.Next() {
		var (
			ev         models.AlertEvent
			receivedAt string
			severity   string
			raw        string
		)
		if err := rows.Scan(&ev.ID, &receivedAt, &ev.Name, &severity, &ev.Status, &ev.Description, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		ev.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse received_at of %s: %w", ev.ID, err)
		}
		// Re-normalize so a hand-edited row cannot leak an unknown severity.
		ev.Severity = models.ParseSeverity(severity)
		ev.Raw = []byte(raw)

		events = append(events, ev)
	}

	return events, rows.Err()
}

// CountEvents returns the total number of logged events
func (db *DB) CountEvents(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM alert_events").Scan(&count)
	return count, err
}

package output

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rcski77/aes-results-scraping/internal/pivot"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS standings (
	run_id        TEXT NOT NULL,
	source        TEXT NOT NULL,
	event_id      TEXT NOT NULL,
	event_name    TEXT NOT NULL,
	event_date    TEXT NOT NULL,
	division_name TEXT NOT NULL,
	team_name     TEXT NOT NULL,
	team_code     TEXT NOT NULL,
	finish        TEXT NOT NULL,
	finish_label  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_standings_run ON standings(run_id);
CREATE TABLE IF NOT EXISTS pivot_cells (
	run_id       TEXT NOT NULL,
	team_key     TEXT NOT NULL,
	display_name TEXT NOT NULL,
	event_name   TEXT NOT NULL,
	finish_label TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pivot_cells_run ON pivot_cells(run_id, team_key);
`

// SQLiteSink stores run results in a SQLite database
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// WriteRun stores the long records and the non-empty cells of table under
// runID in one transaction.
func (s *SQLiteSink) WriteRun(ctx context.Context, runID string, records []standing.Record, table *pivot.WideTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at) VALUES (?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO standings
		(run_id, source, event_id, event_name, event_date, division_name, team_name, team_code, finish, finish_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing standings insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Source, r.EventID, r.EventName, r.EventDate,
			r.DivisionName, r.TeamName, r.TeamCode, r.Finish, r.FinishLabel); err != nil {
			return fmt.Errorf("inserting standing: %w", err)
		}
	}

	if table != nil {
		cellStmt, err := tx.PrepareContext(ctx, `INSERT INTO pivot_cells
			(run_id, team_key, display_name, event_name, finish_label) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing pivot insert: %w", err)
		}
		defer cellStmt.Close()

		for _, row := range table.Rows {
			for i, label := range row.Cells {
				if label == "" {
					continue
				}
				if _, err := cellStmt.ExecContext(ctx, runID, row.Key.String(), row.DisplayName, table.Columns[i], label); err != nil {
					return fmt.Errorf("inserting pivot cell: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

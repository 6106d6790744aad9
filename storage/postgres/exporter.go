// Package postgres exports ledger account summaries to a PostgreSQL table.
//
// Each run is written in one transaction and tagged with a run id, so the
// table keeps the history of every run side by side.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/etnz/payments"
	"github.com/lib/pq"
)

// Table is the name of the table holding the exported summaries.
const Table = "account_summaries"

var schema = `CREATE TABLE IF NOT EXISTS ` + pq.QuoteIdentifier(Table) + ` (
	run_id      UUID           NOT NULL,
	client      INTEGER        NOT NULL,
	available   NUMERIC(24, 4) NOT NULL,
	held        NUMERIC(24, 4) NOT NULL,
	total       NUMERIC(24, 4) NOT NULL,
	locked      BOOLEAN        NOT NULL,
	exported_at TIMESTAMPTZ    NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, client)
)`

var columns = []string{"run_id", "client", "available", "held", "total", "locked"}

// Exporter writes account summaries to PostgreSQL.
type Exporter struct {
	db *sql.DB
}

// Open connects to the database at dsn with the lib/pq driver.
func Open(ctx context.Context, dsn string) (*Exporter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return NewExporter(db), nil
}

// NewExporter creates an Exporter on an open database.
func NewExporter(db *sql.DB) *Exporter {
	return &Exporter{db: db}
}

// Migrate creates the summaries table if it does not exist.
func (e *Exporter) Migrate(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create table %s: %w", Table, err)
	}
	return nil
}

// Export writes rows for runID in a single transaction, using COPY.
func (e *Exporter) Export(ctx context.Context, runID string, rows []payments.AccountSummary) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(Table, columns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			runID,
			strconv.FormatUint(uint64(row.Client), 10),
			row.Available.String(),
			row.Held.String(),
			row.Total.String(),
			row.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to copy client %d: %w", row.Client, err)
		}
	}
	// An Exec without arguments flushes the COPY buffer.
	if _, err = stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (e *Exporter) Close() error { return e.db.Close() }

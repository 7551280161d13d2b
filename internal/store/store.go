// Package store exports the merged dataset to a SQLite file. The database
// is an output artifact alongside merged_data.csv — written in one
// transaction, never read back by the pipeline.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/panithi-t/nyc-development-land-analysis/internal/dataset"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	borough TEXT NOT NULL,
	neighborhood TEXT,
	sale_date TEXT NOT NULL,
	sale_price REAL NOT NULL,
	zoning_floor_area REAL NOT NULL,
	ppzfa REAL,
	zoning_districts TEXT,
	lot_frontage REAL,
	rate_percent REAL
);
CREATE INDEX IF NOT EXISTS idx_transactions_borough ON transactions(borough);
CREATE INDEX IF NOT EXISTS idx_transactions_sale_date ON transactions(sale_date);
`

// Store wraps the export database handle.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite file at path and ensures the schema
// exists. Use ":memory:" in tests.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertTransactions writes the merged rows in one transaction. Re-running
// an analysis over the same file replaces rows by id rather than
// duplicating them.
func (s *Store) UpsertTransactions(ctx context.Context, rows []dataset.AnnotatedTransaction) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, borough, neighborhood, sale_date, sale_price,
			zoning_floor_area, ppzfa, zoning_districts, lot_frontage, rate_percent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			borough = excluded.borough,
			neighborhood = excluded.neighborhood,
			sale_date = excluded.sale_date,
			sale_price = excluded.sale_price,
			zoning_floor_area = excluded.zoning_floor_area,
			ppzfa = excluded.ppzfa,
			zoning_districts = excluded.zoning_districts,
			lot_frontage = excluded.lot_frontage,
			rate_percent = excluded.rate_percent
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		var ppzfa, frontage, rate any
		if row.PPZFA != nil {
			ppzfa = *row.PPZFA
		}
		if row.LotFrontage != nil {
			frontage = *row.LotFrontage
		}
		if row.RateKnown {
			rate = row.Rate
		}

		if _, err := stmt.ExecContext(ctx,
			row.ID,
			string(row.Borough),
			row.Neighborhood,
			row.SaleDate.Format("2006-01-02"),
			row.SalePrice,
			row.ZoningFloorArea,
			ppzfa,
			row.ZoningDistricts,
			frontage,
			rate,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert transaction %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of exported rows; used by tests and by the CLI
// confirmation line.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Package store persists the monthly revenue history behind the
// dashboard trend chart and the month-over-month growth rate.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/startuptracker/startuptracker/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS revenue_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    month TEXT UNIQUE NOT NULL,
    revenue REAL NOT NULL,
    recorded_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_revenue_month ON revenue_history(month);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRevenue upserts one month of revenue. Months are "2006-01"
// strings so lexical order is chronological order.
func (s *SQLiteStore) RecordRevenue(ctx context.Context, month string, revenue float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revenue_history (month, revenue) VALUES (?, ?)
		ON CONFLICT(month) DO UPDATE SET revenue = excluded.revenue, recorded_at = unixepoch()
	`, month, revenue)
	if err != nil {
		return fmt.Errorf("failed to record revenue: %w", err)
	}
	return nil
}

// RevenueTrend returns up to n most recent months, oldest first.
func (s *SQLiteStore) RevenueTrend(ctx context.Context, n int) ([]models.RevenuePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, revenue FROM (
			SELECT month, revenue FROM revenue_history ORDER BY month DESC LIMIT ?
		) ORDER BY month ASC
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	var out []models.RevenuePoint
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Month, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PreviousRevenue returns the latest recorded month strictly before
// the given one, or (0, false) when there is no history yet.
func (s *SQLiteStore) PreviousRevenue(ctx context.Context, month string) (float64, bool, error) {
	var revenue float64
	err := s.db.QueryRowContext(ctx, `
		SELECT revenue FROM revenue_history WHERE month < ? ORDER BY month DESC LIMIT 1
	`, month).Scan(&revenue)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return revenue, true, nil
}

// SeedDemo loads the demo trend when the table is empty, so a fresh
// install renders a populated chart before any live data lands.
func (s *SQLiteStore) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revenue_history`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, p := range DemoTrend() {
		if err := s.RecordRevenue(ctx, p.Month, p.Revenue); err != nil {
			return err
		}
	}
	return nil
}

// DemoTrend is the fallback series served when the store is
// unavailable. December at 62000 and November at 58000 keep the
// month-over-month growth figure consistent with the demo payload.
func DemoTrend() []models.RevenuePoint {
	return []models.RevenuePoint{
		{Month: "2024-07", Revenue: 41000},
		{Month: "2024-08", Revenue: 45000},
		{Month: "2024-09", Revenue: 48500},
		{Month: "2024-10", Revenue: 53000},
		{Month: "2024-11", Revenue: 58000},
		{Month: "2024-12", Revenue: 62000},
	}
}

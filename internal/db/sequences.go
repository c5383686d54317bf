package db

import (
	"context"
	"fmt"
	"time"
)

// NextQuotationSequence atomically increments and returns the quotation counter for day.
// The first call for a day returns 1.
func (db *DB) NextQuotationSequence(ctx context.Context, day time.Time) (int64, error) {
	var next int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO quotation_sequences (day, last_value)
		 VALUES ($1, 1)
		 ON CONFLICT (day) DO UPDATE
		   SET last_value = quotation_sequences.last_value + 1, updated_at = NOW()
		 RETURNING last_value`,
		day.Format("2006-01-02"),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to advance quotation sequence: %w", err)
	}
	return next, nil
}

// Package sequence hands out per-day quotation sequence numbers.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/docsynth/internal/documents"
)

// Source returns the next sequence value for a calendar day, starting at 1
type Source interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// Store is the database side of numbering, satisfied by *db.DB
type Store interface {
	NextQuotationSequence(ctx context.Context, day time.Time) (int64, error)
}

// dayKey normalizes a time to its UTC calendar day
func dayKey(day time.Time) string {
	return day.UTC().Format("20060102")
}

// QuotationNumber draws the next value from src and formats it as COT-YYYYMMDD-NNNN
func QuotationNumber(ctx context.Context, src Source, day time.Time) (string, error) {
	seq, err := src.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("failed to number quotation: %w", err)
	}
	return documents.FormatQuotationNumber(day.UTC(), seq), nil
}

// Memory is an in-process Source. Counters are lost on restart.
type Memory struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemory creates an empty Memory source
func NewMemory() *Memory {
	return &Memory{counts: map[string]int64{}}
}

// Next implements Source
func (m *Memory) Next(_ context.Context, day time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(day)
	m.counts[key]++
	return m.counts[key], nil
}

// DBSource adapts a Store to Source
type DBSource struct {
	store Store
}

// FromStore wraps a Store
func FromStore(store Store) *DBSource {
	return &DBSource{store: store}
}

// Next implements Source
func (s *DBSource) Next(ctx context.Context, day time.Time) (int64, error) {
	return s.store.NextQuotationSequence(ctx, day.UTC())
}

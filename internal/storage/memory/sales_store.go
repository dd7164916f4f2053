// Package memory provides an in-memory staging table for tests and demo runs.
package memory

import (
	"context"
	"sync"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

var _ storage.RawSalesStore = (*SalesStore)(nil)

// SalesStore is an in-memory implementation of storage.RawSalesStore.
// Rows are kept keyed by staging column, so batches with different
// header subsets load back like a database table: absent cells are empty.
type SalesStore struct {
	mu   sync.RWMutex
	rows []map[string]string
}

// NewSalesStore creates a new empty in-memory staging table.
func NewSalesStore() *SalesStore {
	return &SalesStore{}
}

// InsertRaw appends raw's rows after the stored ones.
// Returns ErrUnknownColumn or ErrRaggedRow without storing anything.
func (s *SalesStore) InsertRaw(_ context.Context, raw *domain.RawTable) error {
	if raw == nil || len(raw.Rows) == 0 {
		return nil
	}
	cols, err := storage.StagingColumns(raw.Header)
	if err != nil {
		return err
	}
	if err := storage.CheckRows(raw); err != nil {
		return err
	}

	batch := make([]map[string]string, len(raw.Rows))
	for i, row := range raw.Rows {
		rec := make(map[string]string, len(cols))
		for j, c := range cols {
			rec[c] = row[j]
		}
		batch[i] = rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, batch...)
	return nil
}

// Load returns the stored rows in insertion order with the export header.
func (s *SalesStore) Load(_ context.Context) (*domain.RawTable, error) {
	headers, cols := storage.ExportColumns()

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw := &domain.RawTable{Header: headers, Rows: make([][]string, len(s.rows))}
	for i, rec := range s.rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		raw.Rows[i] = row
	}
	return raw, nil
}

// Len returns the number of stored rows.
func (s *SalesStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Close is a no-op.
func (s *SalesStore) Close() {}

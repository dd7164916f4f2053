package ingestion

import (
	"context"

	"weekly-sales-report/internal/domain"
)

// MemorySource serves a fixed table. Each Load returns a fresh copy.
type MemorySource struct {
	raw *domain.RawTable
}

// NewMemorySource creates a source over raw.
func NewMemorySource(raw *domain.RawTable) *MemorySource {
	return &MemorySource{raw: raw}
}

// Load returns a deep copy of the table.
func (s *MemorySource) Load(_ context.Context) (*domain.RawTable, error) {
	if s.raw == nil {
		return &domain.RawTable{}, nil
	}
	out := &domain.RawTable{
		Header: append([]string(nil), s.raw.Header...),
		Rows:   make([][]string, len(s.raw.Rows)),
	}
	for i, row := range s.raw.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out, nil
}

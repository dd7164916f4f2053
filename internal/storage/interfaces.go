package storage

import (
	"context"

	"weekly-sales-report/internal/domain"
)

// RawSalesStore provides access to the raw sales staging table.
// Every cell is stored as text so the validator sees exactly what the export carried.
type RawSalesStore interface {
	// Load returns the staging rows in insertion order with the export header.
	// NULL cells come back as empty strings.
	Load(ctx context.Context) (*domain.RawTable, error)

	// InsertRaw appends rows atomically where the engine allows it.
	// Returns ErrUnknownColumn for header cells without a staging column.
	InsertRaw(ctx context.Context, raw *domain.RawTable) error

	// Close releases the underlying connection.
	Close()
}

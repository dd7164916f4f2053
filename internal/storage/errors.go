package storage

import "errors"

// Storage errors for staging-table stores.
var (
	// ErrInvalidTable is returned when a staging table name is not a plain identifier.
	ErrInvalidTable = errors.New("invalid table name")

	// ErrRaggedRow is returned when a row to insert does not match the header width.
	ErrRaggedRow = errors.New("row width does not match header")

	// ErrTableNotFound is returned when the staging table does not exist.
	// Run the migrations (--migrate) to create it.
	ErrTableNotFound = errors.New("staging table not found")

	// ErrUnknownColumn is returned when a header cell has no staging column.
	ErrUnknownColumn = errors.New("unknown column")
)

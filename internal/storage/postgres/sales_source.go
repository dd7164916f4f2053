package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

// SalesSource implements storage.RawSalesStore over a TEXT-typed staging table.
type SalesSource struct {
	pool  *Pool
	table string
}

// NewSalesSource creates a SalesSource reading from table.
func NewSalesSource(pool *Pool, table string) (*SalesSource, error) {
	if err := storage.ValidateTable(table); err != nil {
		return nil, err
	}
	return &SalesSource{pool: pool, table: table}, nil
}

// Compile-time interface check.
var _ storage.RawSalesStore = (*SalesSource)(nil)

// Load returns all staging rows ordered by row_num.
func (s *SalesSource) Load(ctx context.Context) (*domain.RawTable, error) {
	headers, cols := storage.ExportColumns()
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		strings.Join(cols, ", "), s.table, storage.OrderColumn)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	raw := &domain.RawTable{Header: headers}
	cells := make([]*string, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.table, err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c != nil {
				row[i] = *c
			}
		}
		raw.Rows = append(raw.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	return raw, nil
}

// InsertRaw appends rows after the current last row_num in one transaction.
func (s *SalesSource) InsertRaw(ctx context.Context, raw *domain.RawTable) error {
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var last int64
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s`, storage.OrderColumn, s.table)).Scan(&last)
	if err != nil {
		if isUndefinedTableError(err) {
			return fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return fmt.Errorf("read last %s: %w", storage.OrderColumn, err)
	}

	values := make([][]any, len(raw.Rows))
	for i, row := range raw.Rows {
		v := make([]any, 0, len(row)+1)
		v = append(v, last+int64(i)+1)
		for _, cell := range row {
			v = append(v, cell)
		}
		values[i] = v
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{s.table},
		append([]string{storage.OrderColumn}, cols...),
		pgx.CopyFromRows(values),
	)
	if err != nil {
		return fmt.Errorf("copy into %s: %w", s.table, err)
	}
	if copied != int64(len(values)) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", s.table, copied, len(values))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *SalesSource) Close() {
	s.pool.Close()
}

package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

// SalesSource implements storage.RawSalesStore over a Nullable(String) staging table.
type SalesSource struct {
	conn  *Conn
	table string
}

// NewSalesSource creates a SalesSource reading from table.
func NewSalesSource(conn *Conn, table string) (*SalesSource, error) {
	if err := storage.ValidateTable(table); err != nil {
		return nil, err
	}
	return &SalesSource{conn: conn, table: table}, nil
}

// Compile-time interface check.
var _ storage.RawSalesStore = (*SalesSource)(nil)

// Load returns all staging rows ordered by row_num.
func (s *SalesSource) Load(ctx context.Context) (*domain.RawTable, error) {
	headers, cols := storage.ExportColumns()
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		strings.Join(cols, ", "), s.table, storage.OrderColumn)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		if isUnknownTableError(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	raw := &domain.RawTable{Header: headers}
	for rows.Next() {
		cells := make([]*string, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
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

// InsertRaw appends rows after the current last row_num in a single batch.
// MergeTree has no transactions; a failed Send leaves no partial batch behind.
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

	var last uint64
	row := s.conn.QueryRow(ctx, fmt.Sprintf(`SELECT max(%s) FROM %s`, storage.OrderColumn, s.table))
	if err := row.Scan(&last); err != nil {
		if isUnknownTableError(err) {
			return fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return fmt.Errorf("read last %s: %w", storage.OrderColumn, err)
	}

	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO %s (%s, %s)`,
		s.table, storage.OrderColumn, strings.Join(cols, ", ")))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, r := range raw.Rows {
		args := make([]any, 0, len(r)+1)
		args = append(args, last+uint64(i)+1)
		for _, cell := range r {
			args = append(args, cell)
		}
		if err := batch.Append(args...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SalesSource) Close() {
	_ = s.conn.Close()
}

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

// insertChunk bounds the rows per INSERT statement to stay under max_allowed_packet.
const insertChunk = 500

// SalesSource implements storage.RawSalesStore over a VARCHAR staging table.
type SalesSource struct {
	db    *DB
	table string
}

// NewSalesSource creates a SalesSource reading from table.
func NewSalesSource(db *DB, table string) (*SalesSource, error) {
	if err := storage.ValidateTable(table); err != nil {
		return nil, err
	}
	return &SalesSource{db: db, table: table}, nil
}

// Compile-time interface check.
var _ storage.RawSalesStore = (*SalesSource)(nil)

// Load returns all staging rows ordered by row_num.
func (s *SalesSource) Load(ctx context.Context) (*domain.RawTable, error) {
	headers, cols := storage.ExportColumns()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC",
		strings.Join(cols, ", "), s.table, storage.OrderColumn)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		if isNoSuchTableError(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	raw := &domain.RawTable{Header: headers}
	cells := make([]sql.NullString, len(cols))
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
			row[i] = c.String // empty when NULL
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var last int64
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", storage.OrderColumn, s.table)).Scan(&last)
	if err != nil {
		if isNoSuchTableError(err) {
			return fmt.Errorf("%w: %s", storage.ErrTableNotFound, s.table)
		}
		return fmt.Errorf("read last %s: %w", storage.OrderColumn, err)
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ", s.table, storage.OrderColumn, strings.Join(cols, ", "))

	for start := 0; start < len(raw.Rows); start += insertChunk {
		end := min(start+insertChunk, len(raw.Rows))

		groups := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*(len(cols)+1))
		for i := start; i < end; i++ {
			groups = append(groups, placeholder)
			args = append(args, last+int64(i)+1)
			for _, cell := range raw.Rows[i] {
				args = append(args, cell)
			}
		}

		if _, err := tx.ExecContext(ctx, prefix+strings.Join(groups, ", "), args...); err != nil {
			return fmt.Errorf("insert into %s: %w", s.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *SalesSource) Close() {
	_ = s.db.Close()
}

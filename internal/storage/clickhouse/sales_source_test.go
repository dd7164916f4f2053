package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

func exportRow(invoice, product string) []string {
	return []string{
		invoice, "B", "Mandalay", "Normal", "Male", product,
		"15.28", "5", "3.82", "80.22", "3/8/2019", "10:29", "Cash",
		"76.4", "4.761904762", "3.82", "9.6",
	}
}

func TestSalesSource_InsertAndLoad(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src, err := NewSalesSource(conn, storage.DefaultTable)
	require.NoError(t, err)

	batch1 := &domain.RawTable{
		Header: append([]string(nil), domain.ExportColumns...),
		Rows: [][]string{
			exportRow("226-31-3081", "Electronic accessories"),
			exportRow("123-19-1176", "Sports and travel"),
		},
	}
	batch2 := &domain.RawTable{
		Header: append([]string(nil), domain.ExportColumns...),
		Rows:   [][]string{exportRow("373-73-7910", "Home and lifestyle")},
	}
	require.NoError(t, src.InsertRaw(ctx, batch1))
	require.NoError(t, src.InsertRaw(ctx, batch2))

	got, err := src.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, domain.ExportColumns, got.Header)
	assert.Equal(t, batch1.Rows[0], got.Rows[0])
	assert.Equal(t, batch1.Rows[1], got.Rows[1])
	assert.Equal(t, batch2.Rows[0], got.Rows[2])
}

func TestSalesSource_NullBecomesEmptyCell(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, conn.Exec(ctx, `INSERT INTO raw_sales (row_num, invoice_id, rating) VALUES (1, 'x-1', '7.5')`))

	src, err := NewSalesSource(conn, storage.DefaultTable)
	require.NoError(t, err)

	got, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "x-1", got.Rows[0][got.ColumnIndex(domain.ColInvoiceID)])
	assert.Equal(t, "7.5", got.Rows[0][got.ColumnIndex(domain.ColRating)])
	assert.Equal(t, "", got.Rows[0][got.ColumnIndex(domain.ColPayment)])
}

func TestSalesSource_MissingTable(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	src, err := NewSalesSource(conn, "no_such_table")
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrTableNotFound)
}

func TestNewSalesSource_InvalidTable(t *testing.T) {
	_, err := NewSalesSource(nil, "raw-sales")
	assert.ErrorIs(t, err, storage.ErrInvalidTable)
}

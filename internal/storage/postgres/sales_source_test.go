package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

func exportRow(invoice, city string) []string {
	return []string{
		invoice, "A", city, "Member", "Female", "Health and beauty",
		"74.69", "7", "26.1415", "548.9715", "1/5/2019", "13:08", "Ewallet",
		"522.83", "4.761904762", "26.1415", "9.1",
	}
}

func TestSalesSource_InsertAndLoadPreservesOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src, err := NewSalesSource(pool, storage.DefaultTable)
	require.NoError(t, err)

	first := &domain.RawTable{
		Header: append([]string(nil), domain.ExportColumns...),
		Rows:   [][]string{exportRow("750-67-8428", "Yangon"), exportRow("226-31-3081", "Naypyitaw")},
	}
	require.NoError(t, src.InsertRaw(ctx, first))

	second := &domain.RawTable{
		Header: append([]string(nil), domain.ExportColumns...),
		Rows:   [][]string{exportRow("631-41-3108", "Mandalay")},
	}
	require.NoError(t, src.InsertRaw(ctx, second))

	got, err := src.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.ExportColumns, got.Header)
	require.Len(t, got.Rows, 3)
	assert.Equal(t, "750-67-8428", got.Rows[0][0])
	assert.Equal(t, "Naypyitaw", got.Rows[1][2])
	assert.Equal(t, "631-41-3108", got.Rows[2][0])
	assert.Equal(t, exportRow("631-41-3108", "Mandalay"), got.Rows[2])
}

func TestSalesSource_NullBecomesEmptyCell(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `INSERT INTO raw_sales (row_num, invoice_id, sales) VALUES (1, 'x-1', '10.5')`)
	require.NoError(t, err)

	src, err := NewSalesSource(pool, storage.DefaultTable)
	require.NoError(t, err)

	got, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)

	row := got.Rows[0]
	assert.Equal(t, "x-1", row[got.ColumnIndex(domain.ColInvoiceID)])
	assert.Equal(t, "10.5", row[got.ColumnIndex(domain.ColSales)])
	assert.Equal(t, "", row[got.ColumnIndex(domain.ColCity)])
	assert.Equal(t, "", row[got.ColumnIndex(domain.ColRating)])
}

func TestSalesSource_HeaderSubsetInsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	src, err := NewSalesSource(pool, storage.DefaultTable)
	require.NoError(t, err)

	raw := &domain.RawTable{
		Header: []string{domain.ColSales, domain.ColInvoiceID},
		Rows:   [][]string{{"12", "inv-1"}},
	}
	require.NoError(t, src.InsertRaw(ctx, raw))

	got, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "inv-1", got.Rows[0][0])
	assert.Equal(t, "12", got.Rows[0][got.ColumnIndex(domain.ColSales)])
}

func TestSalesSource_Errors(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := NewSalesSource(pool, "raw_sales; DROP TABLE raw_sales")
	assert.ErrorIs(t, err, storage.ErrInvalidTable)

	missing, err := NewSalesSource(pool, "no_such_table")
	require.NoError(t, err)
	_, err = missing.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrTableNotFound)

	src, err := NewSalesSource(pool, storage.DefaultTable)
	require.NoError(t, err)

	err = src.InsertRaw(ctx, &domain.RawTable{Header: []string{"Discount"}, Rows: [][]string{{"1"}}})
	assert.ErrorIs(t, err, storage.ErrUnknownColumn)

	err = src.InsertRaw(ctx, &domain.RawTable{Header: []string{domain.ColSales}, Rows: [][]string{{"1", "2"}}})
	assert.ErrorIs(t, err, storage.ErrRaggedRow)

	assert.NoError(t, src.InsertRaw(ctx, nil))
}

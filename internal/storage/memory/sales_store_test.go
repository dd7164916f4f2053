package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/storage"
)

func TestSalesStore_InsertAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewSalesStore()

	full := &domain.RawTable{
		Header: append([]string(nil), domain.ExportColumns...),
		Rows:   [][]string{make([]string, len(domain.ExportColumns))},
	}
	full.Rows[0][0] = "750-67-8428"
	full.Rows[0][len(domain.ExportColumns)-1] = "9.1"
	require.NoError(t, store.InsertRaw(ctx, full))

	// Header subset in a different order
	partial := &domain.RawTable{
		Header: []string{domain.ColSales, domain.ColInvoiceID},
		Rows:   [][]string{{"548.97", "226-31-3081"}},
	}
	require.NoError(t, store.InsertRaw(ctx, partial))
	assert.Equal(t, 2, store.Len())

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ExportColumns, raw.Header)
	require.Len(t, raw.Rows, 2)

	assert.Equal(t, "750-67-8428", raw.Rows[0][0])
	assert.Equal(t, "9.1", raw.Rows[0][raw.ColumnIndex(domain.ColRating)])

	assert.Equal(t, "226-31-3081", raw.Rows[1][raw.ColumnIndex(domain.ColInvoiceID)])
	assert.Equal(t, "548.97", raw.Rows[1][raw.ColumnIndex(domain.ColSales)])
	assert.Equal(t, "", raw.Rows[1][raw.ColumnIndex(domain.ColCity)])
}

func TestSalesStore_LoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSalesStore()
	require.NoError(t, store.InsertRaw(ctx, &domain.RawTable{
		Header: []string{domain.ColInvoiceID},
		Rows:   [][]string{{"1"}},
	}))

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	raw.Rows[0][0] = "changed"

	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", again.Rows[0][0])
}

func TestSalesStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewSalesStore()

	err := store.InsertRaw(ctx, &domain.RawTable{Header: []string{"Revenue"}, Rows: [][]string{{"1"}}})
	assert.ErrorIs(t, err, storage.ErrUnknownColumn)

	err = store.InsertRaw(ctx, &domain.RawTable{Header: []string{domain.ColInvoiceID, domain.ColSales}, Rows: [][]string{{"1"}}})
	assert.ErrorIs(t, err, storage.ErrRaggedRow)

	assert.NoError(t, store.InsertRaw(ctx, nil))
	assert.Equal(t, 0, store.Len())

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, raw.Rows)
}

package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/testutil"
)

func setup(t *testing.T) (*store.Store, *inventory.Ledger) {
	t.Helper()
	st, err := store.Open(context.Background(), testutil.NewDB(t))
	require.NoError(t, err)
	return st, inventory.NewLedger(st, nil)
}

func putProduct(t *testing.T, st *store.Store, name string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.NewFromInt(20), Stock: stock}
	require.NoError(t, st.Products().Put(context.Background(), p))
	return p
}

func stockOf(t *testing.T, st *store.Store, id string) int {
	t.Helper()
	p, err := st.Products().Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestConsumeDeductsInOrder(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Acelerador", 5)
	b := putProduct(t, st, "Hidratante", 3)

	err := l.Consume(ctx, []models.ProductUsage{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 3},
	}, "ap-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stockOf(t, st, a.ID))
	assert.Equal(t, 0, stockOf(t, st, b.ID))

	moves, err := l.Movements(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, -2, moves[0].Delta)
	assert.Equal(t, 5, moves[0].StockBefore)
	assert.Equal(t, 3, moves[0].StockAfter)
	assert.Equal(t, "ap-1", moves[0].Reference)
	assert.Equal(t, inventory.ReasonConsumption, moves[0].Reason)
}

func TestConsumeSkipsMissingProduct(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Acelerador", 5)

	err := l.Consume(ctx, []models.ProductUsage{
		{ProductID: "gone", Quantity: 1},
		{ProductID: a.ID, Quantity: 1},
	}, "ap-2")
	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, st, a.ID))
}

func TestConsumeInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Acelerador", 5)
	b := putProduct(t, st, "Hidratante", 1)

	err := l.Consume(ctx, []models.ProductUsage{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 2},
	}, "ap-3")
	require.Error(t, err)
	assert.Equal(t, httperr.KindInsufficientStock, httperr.KindOf(err))
	assert.Contains(t, err.Error(), "Hidratante")

	assert.Equal(t, 5, stockOf(t, st, a.ID))
	assert.Equal(t, 1, stockOf(t, st, b.ID))

	moves, err := st.StockMovements().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestConsumeExactStockReachesZero(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Oleo", 2)

	require.NoError(t, l.Consume(ctx, []models.ProductUsage{{ProductID: a.ID, Quantity: 2}}, ""))
	assert.Equal(t, 0, stockOf(t, st, a.ID))
}

func TestConsumeRejectsNonPositiveQuantity(t *testing.T) {
	st, l := setup(t)
	a := putProduct(t, st, "Oleo", 2)

	err := l.Consume(context.Background(), []models.ProductUsage{{ProductID: a.ID, Quantity: 0}}, "")
	assert.True(t, httperr.IsBusiness(err, "invalid_quantity"))
	assert.Equal(t, 2, stockOf(t, st, a.ID))
}

func TestConsumeJoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Oleo", 4)

	err := st.Transaction(ctx, func(tx *store.Store) error {
		if err := l.In(tx).Consume(ctx, []models.ProductUsage{{ProductID: a.ID, Quantity: 1}}, ""); err != nil {
			return err
		}
		return httperr.ErrBusiness("abort")
	})
	require.Error(t, err)
	assert.Equal(t, 4, stockOf(t, st, a.ID))
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()
	st, l := setup(t)
	a := putProduct(t, st, "Oleo", 1)

	p, err := l.Adjust(ctx, a.ID, 5, "restock")
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	_, err = l.Adjust(ctx, a.ID, -7, "")
	assert.Equal(t, httperr.KindInsufficientStock, httperr.KindOf(err))
	assert.Equal(t, 6, stockOf(t, st, a.ID))

	_, err = l.Adjust(ctx, "missing", 1, "")
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

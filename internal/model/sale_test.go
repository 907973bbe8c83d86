package model

import (
	"testing"

	"salesapi/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleMapping_RoundTrip(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	sale, err := domain.NewSale(uuid.New(), "S-001", uuid.New(), "Customer", uuid.New(), "Branch",
		[]domain.ItemInput{
			{ProductID: p1, ProductName: "A", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 4},
			{ProductID: p2, ProductName: "B", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2},
		})
	require.NoError(t, err)

	rec := SaleFromDomain(sale)
	require.Len(t, rec.Items, 2)
	assert.Equal(t, 0, rec.Items[0].Position)
	assert.Equal(t, 1, rec.Items[1].Position)
	assert.Equal(t, p1, rec.Items[0].ProductID)

	restored := rec.ToDomain()
	assert.Equal(t, sale.ID(), restored.ID())
	assert.Equal(t, sale.Number(), restored.Number())
	assert.True(t, sale.TotalAmount().Equal(restored.TotalAmount()))
	assert.True(t, sale.TotalDiscount().Equal(restored.TotalDiscount()))
	assert.True(t, sale.TotalPayable().Equal(restored.TotalPayable()))
	require.Len(t, restored.Items(), 2)
	assert.Equal(t, 4, restored.Items()[0].Quantity())

	// the restored aggregate keeps insertion order and stays mutable
	require.NoError(t, restored.AddItem(p1, "A", decimal.RequireFromString("10.00"), 6))
	assert.Equal(t, 10, restored.Items()[0].Quantity())
}

func TestSaleFromDomain_CancelledState(t *testing.T) {
	sale, err := domain.NewSale(uuid.New(), "S-002", uuid.New(), "Customer", uuid.New(), "Branch",
		[]domain.ItemInput{
			{ProductID: uuid.New(), ProductName: "A", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
		})
	require.NoError(t, err)
	require.NoError(t, sale.CancelItems())
	require.NoError(t, sale.CancelSale())

	rec := SaleFromDomain(sale)
	assert.True(t, rec.Cancelled)
	assert.True(t, rec.TotalPayable.IsZero())
	require.Len(t, rec.Items, 1)
	assert.True(t, rec.Items[0].Cancelled)
}

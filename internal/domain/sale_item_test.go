package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func TestNewSaleItem_ComputesDiscount(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "  Lager 355ml  ", price("10.00"), 4)
	require.NoError(t, err)

	assert.Equal(t, "Lager 355ml", item.ProductName())
	assert.Equal(t, 4, item.Quantity())
	assert.True(t, item.DiscountAmount().Equal(price("4.00")))
	assert.True(t, item.LineTotal().Equal(price("36.00")))
	assert.False(t, item.IsCancelled())
}

func TestNewSaleItem_Validation(t *testing.T) {
	cases := []struct {
		name      string
		productID uuid.UUID
		prodName  string
		unitPrice decimal.Decimal
		qty       int
		code      string
	}{
		{"nil product id", uuid.Nil, "A", price("1"), 1, CodeInvalidProductID},
		{"blank name", uuid.New(), "   ", price("1"), 1, CodeInvalidProductName},
		{"zero price", uuid.New(), "A", price("0"), 1, CodeUnitPricePositive},
		{"negative price", uuid.New(), "A", price("-2"), 1, CodeUnitPricePositive},
		{"zero qty", uuid.New(), "A", price("1"), 0, CodeQuantityPositive},
		{"over ceiling", uuid.New(), "A", price("1"), 21, CodeMaxPerItemExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSaleItem(tc.productID, tc.prodName, tc.unitPrice, tc.qty)
			assertCode(t, err, tc.code)
		})
	}
}

func TestSaleItem_SetQuantity_DefersCeiling(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "A", price("10.00"), 5)
	require.NoError(t, err)

	// The write itself is accepted even over the ceiling...
	require.NoError(t, item.setQuantity(25))
	assert.Equal(t, 25, item.Quantity())

	// ...and the violation only surfaces on recalculation.
	assertCode(t, item.recalculate(), CodeMaxPerItemExceeded)
}

func TestSaleItem_SetQuantity_RejectsNonPositive(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "A", price("10.00"), 5)
	require.NoError(t, err)
	assertCode(t, item.setQuantity(0), CodeQuantityPositive)
	assert.Equal(t, 5, item.Quantity())
}

func TestSaleItem_IncreaseDecrease(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "A", price("10.00"), 5)
	require.NoError(t, err)

	assertCode(t, item.increaseQuantity(0), CodeIncrementPositive)
	require.NoError(t, item.increaseQuantity(3))
	assert.Equal(t, 8, item.Quantity())

	assertCode(t, item.decreaseQuantity(0), CodeIncrementPositive)
	assertCode(t, item.decreaseQuantity(9), CodeQuantityPositive)
	require.NoError(t, item.decreaseQuantity(8))
	assert.Equal(t, 0, item.Quantity())
}

func TestSaleItem_EnsureSameUnitPrice(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "A", price("10.00"), 2)
	require.NoError(t, err)

	require.NoError(t, item.ensureSameUnitPrice(price("10.00")))
	// decimal equality, not representation equality
	require.NoError(t, item.ensureSameUnitPrice(price("10.0")))
	assertCode(t, item.ensureSameUnitPrice(price("9.00")), CodeUnitPriceMismatch)
	assertCode(t, item.ensureSameUnitPrice(price("0")), CodeUnitPricePositive)
}

func TestSaleItem_Cancel(t *testing.T) {
	item, err := newSaleItem(uuid.New(), "A", price("10.00"), 10)
	require.NoError(t, err)

	require.NoError(t, item.cancel())
	assert.True(t, item.IsCancelled())
	assert.Equal(t, 0, item.Quantity())
	assert.True(t, item.DiscountAmount().IsZero())
	assert.True(t, item.LineTotal().IsZero())

	// cancelled lines reject every further mutation
	assertCode(t, item.cancel(), CodeItemAlreadyCancelled)
	assertCode(t, item.setQuantity(3), CodeItemCancelled)
	assertCode(t, item.increaseQuantity(1), CodeItemCancelled)
	assertCode(t, item.decreaseQuantity(1), CodeItemCancelled)
	assertCode(t, item.recalculate(), CodeItemCancelled)
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountRate_TierBoundaries(t *testing.T) {
	cases := []struct {
		qty  int
		rate string
	}{
		{1, "0"},
		{3, "0"},
		{4, "0.1"},
		{9, "0.1"},
		{10, "0.2"},
		{20, "0.2"},
	}
	for _, tc := range cases {
		rate, err := DiscountRate(tc.qty)
		require.NoError(t, err, "qty %d", tc.qty)
		assert.True(t, rate.Equal(decimal.RequireFromString(tc.rate)),
			"qty %d: expected rate %s, got %s", tc.qty, tc.rate, rate)
	}
}

func TestDiscountRate_RejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := DiscountRate(qty)
		require.Error(t, err)
		var derr *Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, CodeQuantityPositive, derr.Code)
	}
}

func TestDiscountRate_RejectsOverCeiling(t *testing.T) {
	_, err := DiscountRate(21)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeMaxPerItemExceeded, derr.Code)
}

func TestCalculateDiscount(t *testing.T) {
	cases := []struct {
		price    string
		qty      int
		discount string
		total    string
	}{
		{"10.00", 3, "0.00", "30.00"},
		{"10.00", 4, "4.00", "36.00"},
		{"10.00", 10, "20.00", "80.00"},
		{"4.50", 6, "2.70", "24.30"},
	}
	for _, tc := range cases {
		discount, total, err := CalculateDiscount(decimal.RequireFromString(tc.price), tc.qty)
		require.NoError(t, err, "price %s qty %d", tc.price, tc.qty)
		assert.True(t, discount.Equal(decimal.RequireFromString(tc.discount)),
			"price %s qty %d: expected discount %s, got %s", tc.price, tc.qty, tc.discount, discount)
		assert.True(t, total.Equal(decimal.RequireFromString(tc.total)),
			"price %s qty %d: expected total %s, got %s", tc.price, tc.qty, tc.total, total)
	}
}

func TestCalculateDiscount_RejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-1"} {
		_, _, err := CalculateDiscount(decimal.RequireFromString(price), 1)
		var derr *Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, CodeUnitPricePositive, derr.Code)
	}
}

func TestCalculateDiscount_Deterministic(t *testing.T) {
	price := decimal.RequireFromString("3.33")
	d1, t1, err := CalculateDiscount(price, 7)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		d2, t2, err := CalculateDiscount(price, 7)
		require.NoError(t, err)
		assert.True(t, d1.Equal(d2))
		assert.True(t, t1.Equal(t2))
	}
}

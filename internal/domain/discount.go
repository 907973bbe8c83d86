package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPerItem is the quantity ceiling for a single sale line.
const MaxPerItem = 20

var (
	rateZero   = decimal.Zero
	rateTen    = decimal.NewFromFloat(0.1)
	rateTwenty = decimal.NewFromFloat(0.2)
)

// DiscountRate returns the discount rate for a given quantity:
// 1-3 units pay full price, 4-9 get 10%, 10-20 get 20%.
func DiscountRate(quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, newError(CodeQuantityPositive, "quantity must be at least 1")
	}
	switch {
	case quantity <= 3:
		return rateZero, nil
	case quantity <= 9:
		return rateTen, nil
	case quantity <= MaxPerItem:
		return rateTwenty, nil
	}
	return decimal.Zero, newError(CodeMaxPerItemExceeded,
		fmt.Sprintf("quantity per product cannot exceed %d", MaxPerItem))
}

// CalculateDiscount derives (discountAmount, lineTotal) from a unit price and
// quantity. All arithmetic is exact decimal; monetary results are rounded to
// 2 places with banker's rounding so repeated recalculations never drift.
func CalculateDiscount(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, decimal.Decimal, error) {
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, newError(CodeUnitPricePositive, "unit price must be greater than 0")
	}
	rate, err := DiscountRate(quantity)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := gross.Mul(rate).RoundBank(2)
	lineTotal := gross.Sub(discount)
	return discount, lineTotal, nil
}

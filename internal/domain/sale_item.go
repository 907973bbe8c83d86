package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is a single product line inside a Sale. All mutators are
// unexported: only the aggregate may change a line, and external code only
// ever sees read accessors.
type SaleItem struct {
	productID      uuid.UUID
	productName    string
	quantity       int
	unitPrice      decimal.Decimal
	discountAmount decimal.Decimal
	lineTotal      decimal.Decimal
	cancelled      bool
}

func newSaleItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, newError(CodeInvalidProductID, "product ID must be a valid UUID")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, newError(CodeInvalidProductName, "product name cannot be empty")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, newError(CodeUnitPricePositive, "unit price must be greater than 0")
	}
	if quantity < 1 {
		return nil, newError(CodeQuantityPositive, "quantity must be at least 1")
	}
	if quantity > MaxPerItem {
		return nil, newError(CodeMaxPerItemExceeded, "quantity per product cannot exceed 20")
	}

	item := &SaleItem{
		productID:   productID,
		productName: strings.TrimSpace(productName),
		quantity:    quantity,
		unitPrice:   unitPrice,
	}
	if err := item.recalculate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *SaleItem) ProductID() uuid.UUID            { return i.productID }
func (i *SaleItem) ProductName() string             { return i.productName }
func (i *SaleItem) Quantity() int                   { return i.quantity }
func (i *SaleItem) UnitPrice() decimal.Decimal      { return i.unitPrice }
func (i *SaleItem) DiscountAmount() decimal.Decimal { return i.discountAmount }
func (i *SaleItem) LineTotal() decimal.Decimal      { return i.lineTotal }
func (i *SaleItem) IsCancelled() bool               { return i.cancelled }

// setQuantity overwrites the quantity. The MaxPerItem ceiling is deliberately
// NOT checked here: the aggregate's closing recalculate pass enforces it via
// the discount policy.
func (i *SaleItem) setQuantity(newQuantity int) error {
	if i.cancelled {
		return newError(CodeItemCancelled, "cannot change quantity of a cancelled item")
	}
	if newQuantity < 1 {
		return newError(CodeQuantityPositive, "quantity must be at least 1")
	}
	i.quantity = newQuantity
	return nil
}

// increaseQuantity adds increment units. Ceiling enforcement is deferred to
// the aggregate recalculate pass, same as setQuantity.
func (i *SaleItem) increaseQuantity(increment int) error {
	if i.cancelled {
		return newError(CodeItemCancelled, "cannot change quantity of a cancelled item")
	}
	if increment < 1 {
		return newError(CodeIncrementPositive, "increment must be at least 1")
	}
	i.quantity += increment
	return nil
}

// decreaseQuantity subtracts decrement units. It allows the quantity to reach
// exactly zero; the caller cancels the line in that case.
func (i *SaleItem) decreaseQuantity(decrement int) error {
	if i.cancelled {
		return newError(CodeItemCancelled, "cannot change quantity of a cancelled item")
	}
	if decrement < 1 {
		return newError(CodeIncrementPositive, "decrement must be at least 1")
	}
	if i.quantity-decrement < 0 {
		return newError(CodeQuantityPositive, "quantity cannot go below 0")
	}
	i.quantity -= decrement
	return nil
}

// ensureSameUnitPrice rejects merging lines whose price differs from the one
// fixed at first insertion.
func (i *SaleItem) ensureSameUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return newError(CodeUnitPricePositive, "unit price must be greater than 0")
	}
	if !i.unitPrice.Equal(unitPrice) {
		return newError(CodeUnitPriceMismatch, "unit price does not match existing item price")
	}
	return nil
}

// cancel zeroes the line and marks it cancelled. Irreversible.
func (i *SaleItem) cancel() error {
	if i.cancelled {
		return newError(CodeItemAlreadyCancelled, "item is already cancelled")
	}
	i.cancelled = true
	i.quantity = 0
	i.discountAmount = decimal.Zero
	i.lineTotal = decimal.Zero
	return nil
}

// recalculate re-derives discount and line total from the current price and
// quantity. This is where a deferred ceiling violation surfaces.
func (i *SaleItem) recalculate() error {
	if i.cancelled {
		return newError(CodeItemCancelled, "cannot recalculate a cancelled item")
	}
	discount, lineTotal, err := CalculateDiscount(i.unitPrice, i.quantity)
	if err != nil {
		return err
	}
	i.discountAmount = discount
	i.lineTotal = lineTotal
	return nil
}

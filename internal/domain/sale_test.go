package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, items ...ItemInput) *Sale {
	t.Helper()
	sale, err := NewSale(uuid.New(), "S-001", uuid.New(), "Cliente", uuid.New(), "Filial", items)
	require.NoError(t, err)
	return sale
}

// assertTotals checks the three totals and the payable = amount - discount
// invariant in one place.
func assertTotals(t *testing.T, s *Sale, amount, discount, payable string) {
	t.Helper()
	assert.True(t, s.TotalAmount().Equal(price(amount)),
		"total amount: expected %s, got %s", amount, s.TotalAmount())
	assert.True(t, s.TotalDiscount().Equal(price(discount)),
		"total discount: expected %s, got %s", discount, s.TotalDiscount())
	assert.True(t, s.TotalPayable().Equal(price(payable)),
		"total payable: expected %s, got %s", payable, s.TotalPayable())
	assert.True(t, s.TotalAmount().Sub(s.TotalDiscount()).Equal(s.TotalPayable()),
		"invariant violated: %s - %s != %s", s.TotalAmount(), s.TotalDiscount(), s.TotalPayable())
}

// ── Construction ─────────────────────────────────────────────────────────────

func TestNewSale_Validation(t *testing.T) {
	id, custID, branchID := uuid.New(), uuid.New(), uuid.New()
	cases := []struct {
		name string
		fn   func() (*Sale, error)
		code string
	}{
		{"nil sale id", func() (*Sale, error) {
			return NewSale(uuid.Nil, "S-1", custID, "C", branchID, "B", nil)
		}, CodeInvalidSaleID},
		{"blank number", func() (*Sale, error) {
			return NewSale(id, "  ", custID, "C", branchID, "B", nil)
		}, CodeInvalidSaleNumber},
		{"nil customer id", func() (*Sale, error) {
			return NewSale(id, "S-1", uuid.Nil, "C", branchID, "B", nil)
		}, CodeInvalidCustomerID},
		{"blank customer name", func() (*Sale, error) {
			return NewSale(id, "S-1", custID, " ", branchID, "B", nil)
		}, CodeInvalidCustomerName},
		{"nil branch id", func() (*Sale, error) {
			return NewSale(id, "S-1", custID, "C", uuid.Nil, "B", nil)
		}, CodeInvalidBranchID},
		{"blank branch name", func() (*Sale, error) {
			return NewSale(id, "S-1", custID, "C", branchID, "", nil)
		}, CodeInvalidBranchName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sale, err := tc.fn()
			assert.Nil(t, sale)
			assertCode(t, err, tc.code)
		})
	}
}

func TestNewSale_TrimsFields(t *testing.T) {
	sale, err := NewSale(uuid.New(), " S-042 ", uuid.New(), " Cliente ", uuid.New(), " Filial ", nil)
	require.NoError(t, err)
	assert.Equal(t, "S-042", sale.Number())
	assert.Equal(t, "Cliente", sale.CustomerName())
	assert.Equal(t, "Filial", sale.BranchName())
	assertTotals(t, sale, "0", "0", "0")
}

func TestNewSale_SeedsInitialItems(t *testing.T) {
	p := uuid.New()
	sale := newTestSale(t,
		ItemInput{ProductID: p, ProductName: "A", UnitPrice: price("10.00"), Quantity: 5},
		ItemInput{ProductID: uuid.New(), ProductName: "B", UnitPrice: price("5.00"), Quantity: 2},
	)
	require.Len(t, sale.Items(), 2)
	assertTotals(t, sale, "60.00", "5.00", "55.00")
}

func TestNewSale_InvalidInitialItemAbortsConstruction(t *testing.T) {
	sale, err := NewSale(uuid.New(), "S-1", uuid.New(), "C", uuid.New(), "B", []ItemInput{
		{ProductID: uuid.New(), ProductName: "A", UnitPrice: price("10.00"), Quantity: 21},
	})
	assert.Nil(t, sale)
	assertCode(t, err, CodeMaxPerItemExceeded)
}

func TestNewSale_RecordsCreatedEvent(t *testing.T) {
	sale := newTestSale(t,
		ItemInput{ProductID: uuid.New(), ProductName: "A", UnitPrice: price("10.00"), Quantity: 5})

	events := sale.PullEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(SaleCreated)
	require.True(t, ok)
	assert.Equal(t, sale.ID(), created.SaleID)
	assert.Equal(t, "S-001", created.Number)
	assert.True(t, created.TotalPayable.Equal(price("45.00")))

	// drained — second pull is empty
	assert.Empty(t, sale.PullEvents())
}

// ── AddItem ──────────────────────────────────────────────────────────────────

func TestAddItem_NewLinesAndTotals(t *testing.T) {
	sale := newTestSale(t)

	require.NoError(t, sale.AddItem(uuid.New(), "Product A", price("10.00"), 4))
	assertTotals(t, sale, "40.00", "4.00", "36.00")

	require.NoError(t, sale.AddItem(uuid.New(), "Product B", price("5.00"), 2))
	assertTotals(t, sale, "50.00", "4.00", "46.00")
}

func TestAddItem_MergesSameProductAndRetiers(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()

	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 3))
	assertTotals(t, sale, "30.00", "0.00", "30.00")

	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 2))
	require.Len(t, sale.Items(), 1)
	assert.Equal(t, 5, sale.Items()[0].Quantity())
	assertTotals(t, sale, "50.00", "5.00", "45.00")

	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 5))
	assertTotals(t, sale, "100.00", "20.00", "80.00")
}

func TestAddItem_PriceMismatchLeavesQuantityUnchanged(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 3))

	assertCode(t, sale.AddItem(p, "Product A", price("9.00"), 2), CodeUnitPriceMismatch)
	assert.Equal(t, 3, sale.Items()[0].Quantity())
	assertTotals(t, sale, "30.00", "0.00", "30.00")
}

func TestAddItem_MergeOverCeilingLeavesQuantityIncremented(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 18))

	// The increment is applied before the ceiling check fires in the
	// recalculate pass, so the in-memory quantity is already 23. Callers
	// must discard the aggregate instead of persisting it.
	assertCode(t, sale.AddItem(p, "Product A", price("10.00"), 5), CodeMaxPerItemExceeded)
	assert.Equal(t, 23, sale.Items()[0].Quantity())
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	sale := newTestSale(t)
	for _, qty := range []int{0, -1} {
		assertCode(t, sale.AddItem(uuid.New(), "Product A", price("10.00"), qty), CodeQuantityPositive)
	}
	assertCode(t, sale.AddItem(uuid.New(), "Product A", price("10.00"), 21), CodeMaxPerItemExceeded)
	assert.Empty(t, sale.Items())
}

// ── UpdateItemQuantity ───────────────────────────────────────────────────────

func TestUpdateItemQuantity(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 3))

	require.NoError(t, sale.UpdateItemQuantity(p, 10))
	assertTotals(t, sale, "100.00", "20.00", "80.00")
}

func TestUpdateItemQuantity_ItemNotFound(t *testing.T) {
	sale := newTestSale(t)
	assertCode(t, sale.UpdateItemQuantity(uuid.New(), 5), CodeItemNotFound)
}

func TestUpdateItemQuantity_OverCeilingLeavesQuantityWritten(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 3))

	assertCode(t, sale.UpdateItemQuantity(p, 25), CodeMaxPerItemExceeded)
	assert.Equal(t, 25, sale.Items()[0].Quantity())
}

// ── RemoveItem ───────────────────────────────────────────────────────────────

func TestRemoveItem(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 10))

	require.NoError(t, sale.RemoveItem(p, 6))
	assert.Equal(t, 4, sale.Items()[0].Quantity())
	assertTotals(t, sale, "40.00", "4.00", "36.00")
}

func TestRemoveItem_MustLeaveAtLeastOneUnit(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "Product A", price("10.00"), 3))

	assertCode(t, sale.RemoveItem(p, 3), CodeQuantityPositive)
	assertCode(t, sale.RemoveItem(p, 4), CodeQuantityPositive)
	assert.Equal(t, 3, sale.Items()[0].Quantity())
}

func TestRemoveItem_ItemNotFound(t *testing.T) {
	sale := newTestSale(t)
	assertCode(t, sale.RemoveItem(uuid.New(), 1), CodeItemNotFound)
}

// ── CancelItems / CancelSale ─────────────────────────────────────────────────

func TestCancelItems(t *testing.T) {
	sale := newTestSale(t)
	p1, p2 := uuid.New(), uuid.New()
	require.NoError(t, sale.AddItem(p1, "A", price("10.00"), 5))
	require.NoError(t, sale.AddItem(p2, "B", price("4.00"), 2))
	sale.PullEvents()

	require.NoError(t, sale.CancelItems())
	assertTotals(t, sale, "0", "0", "0")
	for _, it := range sale.Items() {
		assert.True(t, it.IsCancelled())
	}

	events := sale.PullEvents()
	require.Len(t, events, 1)
	cancelled, ok := events[0].(ItemsCancelled)
	require.True(t, ok)
	assert.ElementsMatch(t, []uuid.UUID{p1, p2}, cancelled.ProductIDs)
}

func TestCancelItems_NoActiveItems(t *testing.T) {
	sale := newTestSale(t)
	assertCode(t, sale.CancelItems(), CodeNoActiveItems)

	require.NoError(t, sale.AddItem(uuid.New(), "A", price("10.00"), 5))
	require.NoError(t, sale.CancelItems())
	assertCode(t, sale.CancelItems(), CodeNoActiveItems)
}

func TestAddItem_AfterLineCancelledCreatesNewLine(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "A", price("10.00"), 5))
	require.NoError(t, sale.CancelItems())

	// a new active line, even at a different price
	require.NoError(t, sale.AddItem(p, "A", price("12.00"), 2))
	require.Len(t, sale.Items(), 2)
	assertTotals(t, sale, "24.00", "0.00", "24.00")
}

func TestCancelSale_RejectedWhileItemsActive(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.AddItem(uuid.New(), "A", price("10.00"), 5))
	assertCode(t, sale.CancelSale(), CodeActiveItemsExist)
	assert.False(t, sale.IsCancelled())
}

func TestCancelSale_Closure(t *testing.T) {
	sale := newTestSale(t)
	p := uuid.New()
	require.NoError(t, sale.AddItem(p, "A", price("10.00"), 5))
	require.NoError(t, sale.CancelItems())
	require.NoError(t, sale.CancelSale())

	assert.True(t, sale.IsCancelled())
	assertTotals(t, sale, "0", "0", "0")

	// every subsequent mutation is rejected
	assertCode(t, sale.AddItem(uuid.New(), "B", price("1.00"), 1), CodeSaleCancelled)
	assertCode(t, sale.UpdateItemQuantity(p, 2), CodeSaleCancelled)
	assertCode(t, sale.RemoveItem(p, 1), CodeSaleCancelled)
	assertCode(t, sale.CancelItems(), CodeSaleCancelled)
	assertCode(t, sale.CancelSale(), CodeSaleCancelled)
}

func TestCancelSale_OnEmptySale(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.CancelSale())
	assert.True(t, sale.IsCancelled())
	assertTotals(t, sale, "0", "0", "0")
}

// ── SoftDelete ───────────────────────────────────────────────────────────────

func TestSoftDelete(t *testing.T) {
	sale := newTestSale(t)
	require.Nil(t, sale.DeletedAt())

	require.NoError(t, sale.SoftDelete())
	require.NotNil(t, sale.DeletedAt())
	assert.Equal(t, *sale.DeletedAt(), sale.UpdatedAt())

	assertCode(t, sale.SoftDelete(), CodeSaleAlreadyDeleted)
}

func TestSoftDelete_IndependentOfCancellation(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.AddItem(uuid.New(), "A", price("10.00"), 2))
	require.NoError(t, sale.SoftDelete())
	// still mutable after soft delete
	require.NoError(t, sale.AddItem(uuid.New(), "B", price("2.00"), 1))
}

// ── End to end ───────────────────────────────────────────────────────────────

func TestSaleLifecycle(t *testing.T) {
	p := uuid.New()
	sale := newTestSale(t,
		ItemInput{ProductID: p, ProductName: "Product P", UnitPrice: price("10.00"), Quantity: 5})
	assertTotals(t, sale, "50.00", "5.00", "45.00")

	require.NoError(t, sale.CancelItems())
	assertTotals(t, sale, "0", "0", "0")

	require.NoError(t, sale.CancelSale())
	assert.True(t, sale.IsCancelled())
	assertTotals(t, sale, "0", "0", "0")

	events := sale.PullEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "sale.created", events[0].EventName())
	assert.Equal(t, "sale.items_cancelled", events[1].EventName())
	assert.Equal(t, "sale.cancelled", events[2].EventName())
}

func TestRestore_RoundTrip(t *testing.T) {
	p := uuid.New()
	sale := newTestSale(t,
		ItemInput{ProductID: p, ProductName: "A", UnitPrice: price("4.50"), Quantity: 6})

	restored := Restore(
		sale.ID(), sale.CreatedAt(), sale.UpdatedAt(), sale.DeletedAt(),
		sale.Number(), sale.CustomerID(), sale.CustomerName(),
		sale.BranchID(), sale.BranchName(), sale.IsCancelled(),
		sale.TotalAmount(), sale.TotalDiscount(), sale.TotalPayable(),
		[]RestoredItem{{
			ProductID:      p,
			ProductName:    "A",
			Quantity:       6,
			UnitPrice:      price("4.50"),
			DiscountAmount: price("2.70"),
			LineTotal:      price("24.30"),
		}})

	assertTotals(t, restored, "27.00", "2.70", "24.30")

	// a restored aggregate behaves like the original
	require.NoError(t, restored.AddItem(p, "A", price("4.50"), 4))
	assert.Equal(t, 10, restored.Items()[0].Quantity())
	assertTotals(t, restored, "45.00", "9.00", "36.00")
}

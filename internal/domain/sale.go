package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is the caller-supplied data for one line of a new sale.
type ItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Sale is the aggregate root for a retail sale transaction. It owns its line
// items and is the only writer of them: every mutation goes through a Sale
// method, which validates preconditions, applies the change, and finishes
// with a full recalculation of the three derived totals.
//
// The aggregate is not safe for concurrent mutation; callers serialize access
// per sale id (the persistence layer loads a fresh copy per request).
type Sale struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	number       string
	customerID   uuid.UUID
	customerName string
	branchID     uuid.UUID
	branchName   string

	items     []*SaleItem
	cancelled bool

	totalAmount   decimal.Decimal
	totalDiscount decimal.Decimal
	totalPayable  decimal.Decimal

	pending []Event
}

// NewSale validates all aggregate-level fields, applies each optional initial
// item through the same path as AddItem, and returns a fully recalculated
// aggregate. Any violation aborts construction; no partially built sale is
// ever returned.
func NewSale(id uuid.UUID, number string, customerID uuid.UUID, customerName string,
	branchID uuid.UUID, branchName string, items []ItemInput) (*Sale, error) {

	now := time.Now().UTC()
	s, err := newSale(id, now, now, nil, number, customerID, customerName, branchID, branchName)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if err := s.addItem(it.ProductID, it.ProductName, it.UnitPrice, it.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.Recalculate(); err != nil {
		return nil, err
	}

	s.record(SaleCreated{
		SaleID:        s.id,
		Number:        s.number,
		CustomerID:    s.customerID,
		BranchID:      s.branchID,
		TotalAmount:   s.totalAmount,
		TotalDiscount: s.totalDiscount,
		TotalPayable:  s.totalPayable,
		OccurredOn:    time.Now().UTC(),
	})
	return s, nil
}

func newSale(id uuid.UUID, createdAt, updatedAt time.Time, deletedAt *time.Time,
	number string, customerID uuid.UUID, customerName string,
	branchID uuid.UUID, branchName string) (*Sale, error) {

	if id == uuid.Nil {
		return nil, newError(CodeInvalidSaleID, "sale ID must be a valid UUID")
	}
	if strings.TrimSpace(number) == "" {
		return nil, newError(CodeInvalidSaleNumber, "sale number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, newError(CodeInvalidCustomerID, "customer ID must be a valid UUID")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, newError(CodeInvalidCustomerName, "customer name cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, newError(CodeInvalidBranchID, "branch ID must be a valid UUID")
	}
	if strings.TrimSpace(branchName) == "" {
		return nil, newError(CodeInvalidBranchName, "branch name cannot be empty")
	}
	if deletedAt != nil && !deletedAt.After(createdAt) {
		return nil, newError(CodeInvalidDeletionDate, "deletion date must be after creation date")
	}

	return &Sale{
		id:            id,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
		number:        strings.TrimSpace(number),
		customerID:    customerID,
		customerName:  strings.TrimSpace(customerName),
		branchID:      branchID,
		branchName:    strings.TrimSpace(branchName),
		totalAmount:   decimal.Zero,
		totalDiscount: decimal.Zero,
		totalPayable:  decimal.Zero,
	}, nil
}

// ── Accessors ────────────────────────────────────────────────────────────────

func (s *Sale) ID() uuid.UUID                  { return s.id }
func (s *Sale) CreatedAt() time.Time           { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time           { return s.updatedAt }
func (s *Sale) DeletedAt() *time.Time          { return s.deletedAt }
func (s *Sale) Number() string                 { return s.number }
func (s *Sale) CustomerID() uuid.UUID          { return s.customerID }
func (s *Sale) CustomerName() string           { return s.customerName }
func (s *Sale) BranchID() uuid.UUID            { return s.branchID }
func (s *Sale) BranchName() string             { return s.branchName }
func (s *Sale) IsCancelled() bool              { return s.cancelled }
func (s *Sale) TotalAmount() decimal.Decimal   { return s.totalAmount }
func (s *Sale) TotalDiscount() decimal.Decimal { return s.totalDiscount }
func (s *Sale) TotalPayable() decimal.Decimal  { return s.totalPayable }

// Items returns the lines in insertion order. The slice is a snapshot; the
// items themselves only expose read accessors outside this package.
func (s *Sale) Items() []*SaleItem {
	out := make([]*SaleItem, len(s.items))
	copy(out, s.items)
	return out
}

// PullEvents drains the facts recorded by mutations since the last drain.
func (s *Sale) PullEvents() []Event {
	ev := s.pending
	s.pending = nil
	return ev
}

func (s *Sale) record(e Event) { s.pending = append(s.pending, e) }

// ── Mutations ────────────────────────────────────────────────────────────────

// AddItem merges quantity into an existing active line for the product (after
// a unit-price match check) or appends a new line. The per-line ceiling is
// enforced by the closing Recalculate pass, so an over-ceiling merge fails
// AFTER the quantity was incremented in memory; callers must discard the
// aggregate instead of persisting it when an error is returned.
func (s *Sale) AddItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}
	if err := s.addItem(productID, productName, unitPrice, quantity); err != nil {
		return err
	}
	if err := s.Recalculate(); err != nil {
		return err
	}
	s.record(SaleModified{
		SaleID:        s.id,
		Change:        ChangeItemAdded,
		ProductID:     &productID,
		Quantity:      &quantity,
		TotalAmount:   s.totalAmount,
		TotalDiscount: s.totalDiscount,
		TotalPayable:  s.totalPayable,
		OccurredOn:    time.Now().UTC(),
	})
	return nil
}

// addItem applies the structural change without recalculating or recording;
// NewSale and AddItem share it.
func (s *Sale) addItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) error {
	existing := s.findActiveItem(productID)
	if existing == nil {
		item, err := newSaleItem(productID, productName, unitPrice, quantity)
		if err != nil {
			return err
		}
		s.items = append(s.items, item)
		return nil
	}
	if err := existing.ensureSameUnitPrice(unitPrice); err != nil {
		return err
	}
	return existing.increaseQuantity(quantity)
}

// UpdateItemQuantity overwrites the quantity of an active line. Same deferred
// ceiling contract as AddItem.
func (s *Sale) UpdateItemQuantity(productID uuid.UUID, newQuantity int) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}
	item := s.findActiveItem(productID)
	if item == nil {
		return newError(CodeItemNotFound, "cannot update quantity of a non-existing item")
	}
	if err := item.setQuantity(newQuantity); err != nil {
		return err
	}
	if err := s.Recalculate(); err != nil {
		return err
	}
	s.record(SaleModified{
		SaleID:        s.id,
		Change:        ChangeItemQuantityUpdated,
		ProductID:     &productID,
		Quantity:      &newQuantity,
		TotalAmount:   s.totalAmount,
		TotalDiscount: s.totalDiscount,
		TotalPayable:  s.totalPayable,
		OccurredOn:    time.Now().UTC(),
	})
	return nil
}

// RemoveItem decreases an active line's quantity. The removal must leave at
// least one unit; zeroing a line is only reachable through CancelItems.
func (s *Sale) RemoveItem(productID uuid.UUID, quantity int) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}
	item := s.findActiveItem(productID)
	if item == nil {
		return newError(CodeItemNotFound, "cannot remove a non-existing item")
	}
	if item.quantity-quantity < 1 {
		return newError(CodeQuantityPositive, "quantity must be at least 1 after removal")
	}
	if err := item.decreaseQuantity(quantity); err != nil {
		return err
	}
	if item.quantity == 0 {
		if err := item.cancel(); err != nil {
			return err
		}
	}
	if err := s.Recalculate(); err != nil {
		return err
	}
	s.record(SaleModified{
		SaleID:        s.id,
		Change:        ChangeItemRemoved,
		ProductID:     &productID,
		Quantity:      &quantity,
		TotalAmount:   s.totalAmount,
		TotalDiscount: s.totalDiscount,
		TotalPayable:  s.totalPayable,
		OccurredOn:    time.Now().UTC(),
	})
	return nil
}

// CancelItems cancels every active line. The sale itself stays open.
func (s *Sale) CancelItems() error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}
	var active []*SaleItem
	for _, it := range s.items {
		if !it.cancelled {
			active = append(active, it)
		}
	}
	if len(active) == 0 {
		return newError(CodeNoActiveItems, "there are no active items to cancel")
	}
	productIDs := make([]uuid.UUID, 0, len(active))
	for _, it := range active {
		if err := it.cancel(); err != nil {
			return err
		}
		productIDs = append(productIDs, it.productID)
	}
	if err := s.Recalculate(); err != nil {
		return err
	}
	s.record(ItemsCancelled{
		SaleID:     s.id,
		ProductIDs: productIDs,
		OccurredOn: time.Now().UTC(),
	})
	return nil
}

// CancelSale marks the sale cancelled. All lines must already be cancelled or
// removed; Cancelled is terminal and every later mutation is rejected.
func (s *Sale) CancelSale() error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}
	for _, it := range s.items {
		if !it.cancelled {
			return newError(CodeActiveItemsExist,
				"cannot cancel sale with active items; cancel or remove all items first")
		}
	}
	s.cancelled = true
	if err := s.Recalculate(); err != nil {
		return err
	}
	s.record(SaleCancelled{
		SaleID:     s.id,
		Number:     s.number,
		OccurredOn: time.Now().UTC(),
	})
	return nil
}

// Recalculate is the single totals-derivation routine. A cancelled sale's
// totals are forced to zero without touching the lines; otherwise every
// active line is recalculated (deferred ceiling violations surface here) and
// gross/payable are summed over active lines with discount as their
// difference.
func (s *Sale) Recalculate() error {
	if s.cancelled {
		s.totalAmount = decimal.Zero
		s.totalDiscount = decimal.Zero
		s.totalPayable = decimal.Zero
		s.updatedAt = time.Now().UTC()
		return nil
	}

	amount := decimal.Zero
	payable := decimal.Zero
	for _, it := range s.items {
		if it.cancelled {
			continue
		}
		if err := it.recalculate(); err != nil {
			return err
		}
		amount = amount.Add(it.unitPrice.Mul(decimal.NewFromInt(int64(it.quantity))))
		payable = payable.Add(it.lineTotal)
	}
	s.totalAmount = amount
	s.totalPayable = payable
	s.totalDiscount = amount.Sub(payable)
	s.updatedAt = time.Now().UTC()
	return nil
}

// SoftDelete stamps the deletion timestamp. Irreversible and orthogonal to
// cancellation.
func (s *Sale) SoftDelete() error {
	if s.deletedAt != nil {
		return newError(CodeSaleAlreadyDeleted, "sale has already been deleted")
	}
	now := time.Now().UTC()
	s.deletedAt = &now
	s.updatedAt = now
	return nil
}

func (s *Sale) findActiveItem(productID uuid.UUID) *SaleItem {
	for _, it := range s.items {
		if it.productID == productID && !it.cancelled {
			return it
		}
	}
	return nil
}

func (s *Sale) ensureNotCancelled() error {
	if s.cancelled {
		return newError(CodeSaleCancelled, "cannot modify a cancelled sale")
	}
	return nil
}

// ── Rehydration ──────────────────────────────────────────────────────────────

// RestoredItem carries one stored line for Restore.
type RestoredItem struct {
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
	Cancelled      bool
}

// Restore rebuilds an aggregate from persisted state without re-running
// factory validation; the store is trusted to hold only states that passed
// through the invariant-checked constructors.
func Restore(id uuid.UUID, createdAt, updatedAt time.Time, deletedAt *time.Time,
	number string, customerID uuid.UUID, customerName string,
	branchID uuid.UUID, branchName string, cancelled bool,
	totalAmount, totalDiscount, totalPayable decimal.Decimal,
	items []RestoredItem) *Sale {

	s := &Sale{
		id:            id,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
		number:        number,
		customerID:    customerID,
		customerName:  customerName,
		branchID:      branchID,
		branchName:    branchName,
		cancelled:     cancelled,
		totalAmount:   totalAmount,
		totalDiscount: totalDiscount,
		totalPayable:  totalPayable,
	}
	for _, it := range items {
		s.items = append(s.items, &SaleItem{
			productID:      it.ProductID,
			productName:    it.ProductName,
			quantity:       it.Quantity,
			unitPrice:      it.UnitPrice,
			discountAmount: it.DiscountAmount,
			lineTotal:      it.LineTotal,
			cancelled:      it.Cancelled,
		})
	}
	return s
}

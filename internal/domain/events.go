package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Change kinds carried by SaleModified.
const (
	ChangeItemAdded           = "ItemAdded"
	ChangeItemRemoved         = "ItemRemoved"
	ChangeItemQuantityUpdated = "ItemQuantityUpdated"
)

// Event is a fact the aggregate records after a successful mutation.
// The aggregate never publishes anything itself: the caller drains PullEvents
// and hands the facts to whatever delivery mechanism it wants.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

type SaleCreated struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	Number        string          `json:"number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	OccurredOn    time.Time       `json:"occurred_on"`
}

func (e SaleCreated) EventName() string     { return "sale.created" }
func (e SaleCreated) OccurredAt() time.Time { return e.OccurredOn }

type SaleModified struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	Change        string          `json:"change"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	Quantity      *int            `json:"quantity,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	OccurredOn    time.Time       `json:"occurred_on"`
}

func (e SaleModified) EventName() string     { return "sale.modified" }
func (e SaleModified) OccurredAt() time.Time { return e.OccurredOn }

type ItemsCancelled struct {
	SaleID     uuid.UUID   `json:"sale_id"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	OccurredOn time.Time   `json:"occurred_on"`
}

func (e ItemsCancelled) EventName() string     { return "sale.items_cancelled" }
func (e ItemsCancelled) OccurredAt() time.Time { return e.OccurredOn }

type SaleCancelled struct {
	SaleID     uuid.UUID `json:"sale_id"`
	Number     string    `json:"number"`
	OccurredOn time.Time `json:"occurred_on"`
}

func (e SaleCancelled) EventName() string     { return "sale.cancelled" }
func (e SaleCancelled) OccurredAt() time.Time { return e.OccurredOn }

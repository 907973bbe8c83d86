package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesapi/internal/domain"
)

// Sale is the persistence record for a sale aggregate. Totals are stored
// denormalized; the domain layer is the only writer of them.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"size:50;uniqueIndex;not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"size:200;not null"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchName    string          `gorm:"size:200;not null"`
	Cancelled     bool            `gorm:"not null;default:false"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPayable  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
	DeletedAt     *time.Time      `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one line of a sale. Position preserves insertion order across
// the full-replace update the repository performs.
type SaleItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position       int             `gorm:"not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName    string          `gorm:"size:200;not null"`
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cancelled      bool            `gorm:"not null;default:false"`
}

func (Sale) TableName() string     { return "sales" }
func (SaleItem) TableName() string { return "sale_items" }

// SaleFromDomain flattens an aggregate into its records. Item rows get fresh
// ids on every call; the repository replaces them wholesale on update.
func SaleFromDomain(s *domain.Sale) *Sale {
	rec := &Sale{
		ID:            s.ID(),
		Number:        s.Number(),
		CustomerID:    s.CustomerID(),
		CustomerName:  s.CustomerName(),
		BranchID:      s.BranchID(),
		BranchName:    s.BranchName(),
		Cancelled:     s.IsCancelled(),
		TotalAmount:   s.TotalAmount(),
		TotalDiscount: s.TotalDiscount(),
		TotalPayable:  s.TotalPayable(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
		DeletedAt:     s.DeletedAt(),
	}
	for i, it := range s.Items() {
		rec.Items = append(rec.Items, SaleItem{
			ID:             uuid.New(),
			SaleID:         s.ID(),
			Position:       i,
			ProductID:      it.ProductID(),
			ProductName:    it.ProductName(),
			Quantity:       it.Quantity(),
			UnitPrice:      it.UnitPrice(),
			DiscountAmount: it.DiscountAmount(),
			LineTotal:      it.LineTotal(),
			Cancelled:      it.IsCancelled(),
		})
	}
	return rec
}

// ToDomain rehydrates the aggregate. Items must already be loaded ordered by
// Position.
func (m *Sale) ToDomain() *domain.Sale {
	items := make([]domain.RestoredItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, domain.RestoredItem{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			LineTotal:      it.LineTotal,
			Cancelled:      it.Cancelled,
		})
	}
	return domain.Restore(
		m.ID, m.CreatedAt, m.UpdatedAt, m.DeletedAt,
		m.Number, m.CustomerID, m.CustomerName,
		m.BranchID, m.BranchName, m.Cancelled,
		m.TotalAmount, m.TotalDiscount, m.TotalPayable,
		items,
	)
}

package repository

import (
	"context"

	"salesapi/internal/dto"
	"salesapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	Update(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByNumber(ctx context.Context, number string) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update replaces the sale header and its full item set in one transaction.
// Item rows are disposable; Position keeps the order stable across replaces.
func (r *saleRepo) Update(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", s.ID).Delete(&model.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Omit("CreatedAt").Save(s).Error
	})
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByNumber(ctx context.Context, number string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("number = ?", number).First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Size

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Number != "" {
		q = q.Where("number = ?", filter.Number)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var order string
	switch filter.Order {
	case "number":
		order = "number ASC"
	case "-number":
		order = "number DESC"
	case "createdAt":
		order = "created_at ASC"
	default:
		order = "created_at DESC"
	}

	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(order).
		Offset(offset).Limit(filter.Size).
		Find(&sales).Error

	return sales, total, err
}

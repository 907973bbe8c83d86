package repository

import (
	"context"
	"time"

	"salesapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventDeliveryRepository interface {
	Create(ctx context.Context, d *model.EventDelivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EventDelivery, error)
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.EventDelivery, error)
	Update(ctx context.Context, d *model.EventDelivery) error
}

type eventDeliveryRepo struct{ db *gorm.DB }

func NewEventDeliveryRepository(db *gorm.DB) EventDeliveryRepository {
	return &eventDeliveryRepo{db: db}
}

func (r *eventDeliveryRepo) Create(ctx context.Context, d *model.EventDelivery) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *eventDeliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EventDelivery, error) {
	var d model.EventDelivery
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *eventDeliveryRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.EventDelivery, error) {
	var rows []model.EventDelivery
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", model.DeliveryPending, now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *eventDeliveryRepo) Update(ctx context.Context, d *model.EventDelivery) error {
	return r.db.WithContext(ctx).Save(d).Error
}

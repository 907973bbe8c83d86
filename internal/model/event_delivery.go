package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DeliveryPending   = "pending"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// EventDelivery tracks one event that could not be delivered on the first
// attempt. The retry cron picks up pending rows whose NextRetryAt has passed
// and moves them to failed after the attempt budget is exhausted.
type EventDelivery struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventName   string     `gorm:"size:50;not null"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	Status      string     `gorm:"size:20;not null;default:pending;index"`
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"index"`
	LastError   string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (EventDelivery) TableName() string { return "event_deliveries" }

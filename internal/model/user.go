package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:200;not null"`
	Email        string    `gorm:"size:200;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:20;not null;default:operator"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

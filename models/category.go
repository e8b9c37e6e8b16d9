package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category describes a class of listings. RequiresReturn drives the borrow
// workflow (items come back, services do not); Consumable marks one-way stock
// that is never restored on completion.
type Category struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `json:"description"`
	RequiresReturn bool      `gorm:"not null" json:"requires_return"`
	Consumable     bool      `gorm:"not null" json:"consumable"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (cat *Category) BeforeCreate(tx *gorm.DB) error {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	return nil
}

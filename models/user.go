package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID          string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Email             string    `gorm:"not null" json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	IsTenantAdmin     bool      `gorm:"default:false" json:"is_tenant_admin"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flag is one resident's report against a listing. The unique index on
// (listing_id, flagged_by) is the canonical duplicate guard; the service's
// pre-check is advisory only.
type Flag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ListingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_flag_per_user,priority:1" json:"listing_id"`
	FlaggedBy string    `gorm:"type:uuid;not null;uniqueIndex:idx_flag_per_user,priority:2" json:"flagged_by"`
	Reason    string    `gorm:"size:500;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`

	Reporter User `gorm:"foreignKey:FlaggedBy" json:"reporter"`
}

func (f *Flag) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Neighborhood struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Neighborhood) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// ListingNeighborhood scopes a neighborhood-visibility listing to one
// neighborhood. Edits replace the whole association set for a listing.
type ListingNeighborhood struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ListingID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_listing_neighborhood,priority:1" json:"listing_id"`
	NeighborhoodID string    `gorm:"type:uuid;not null;uniqueIndex:idx_listing_neighborhood,priority:2" json:"neighborhood_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ln *ListingNeighborhood) BeforeCreate(tx *gorm.DB) error {
	if ln.ID == "" {
		ln.ID = uuid.NewString()
	}
	return nil
}

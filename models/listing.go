package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Listing statuses.
const (
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
	ListingStatusCancelled = "cancelled"
)

// Pricing types.
const (
	PricingFree           = "free"
	PricingFixedPrice     = "fixed_price"
	PricingPayWhatYouWant = "pay_what_you_want"
)

// Visibility scopes.
const (
	VisibilityCommunity    = "community"
	VisibilityNeighborhood = "neighborhood"
)

// Item conditions.
const (
	ConditionNew             = "new"
	ConditionSlightlyUsed    = "slightly_used"
	ConditionUsed            = "used"
	ConditionSlightlyDamaged = "slightly_damaged"
	ConditionMaintenance     = "maintenance"
)

type Listing struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	CreatedBy string `gorm:"type:uuid;index;not null" json:"created_by"`

	CategoryID  string `gorm:"type:uuid;index;not null" json:"category_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Three orthogonal lifecycle axes: status, pause flag, archive marker.
	// Composite display state is derived in DisplayState, never stored.
	Status      string `gorm:"size:20;not null;default:'draft'" json:"status"`
	IsAvailable bool   `gorm:"not null;default:true" json:"is_available"`

	PricingType string   `gorm:"size:30;not null" json:"pricing_type"`
	Price       *float64 `json:"price"`
	Condition   *string  `gorm:"size:30" json:"condition"`

	AvailableQuantity int `gorm:"not null" json:"available_quantity"`

	// At most one of LocationID / the custom location fields is populated.
	LocationID            *string  `gorm:"type:uuid" json:"location_id"`
	CustomLocationName    *string  `json:"custom_location_name"`
	CustomLocationLat     *float64 `json:"custom_location_lat"`
	CustomLocationLng     *float64 `json:"custom_location_lng"`
	CustomLocationAddress *string  `json:"custom_location_address"`

	VisibilityScope string `gorm:"size:20;not null;default:'community'" json:"visibility_scope"`

	PhotoURLs pq.StringArray `gorm:"type:text[]" json:"photo_urls"`

	IsFlagged bool       `gorm:"not null;default:false" json:"is_flagged"`
	FlaggedAt *time.Time `json:"flagged_at"`

	ArchivedAt    *time.Time `json:"archived_at"`
	ArchivedBy    *string    `gorm:"type:uuid" json:"archived_by"`
	ArchiveReason string     `gorm:"size:500" json:"archive_reason"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
	Creator  User     `gorm:"foreignKey:CreatedBy" json:"creator"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// DisplayState collapses the three lifecycle axes into the single state a
// viewer sees.
func (l *Listing) DisplayState() string {
	switch {
	case l.ArchivedAt != nil:
		return "archived"
	case l.Status != ListingStatusPublished:
		return l.Status
	case !l.IsAvailable:
		return "paused"
	default:
		return ListingStatusPublished
	}
}

// HeroPhotoURL returns the first photo, if any.
func (l *Listing) HeroPhotoURL() string {
	if len(l.PhotoURLs) == 0 {
		return ""
	}
	return l.PhotoURLs[0]
}

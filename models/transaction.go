package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction statuses. Terminal states are rejected, completed and cancelled.
const (
	TransactionStatusRequested = "requested"
	TransactionStatusConfirmed = "confirmed"
	TransactionStatusRejected  = "rejected"
	TransactionStatusPickedUp  = "picked_up"
	TransactionStatusReturned  = "returned"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// OpenTransactionStatuses are the states that hold a listing open: a listing
// with a transaction in one of these cannot be deleted, and an admin archive
// force-cancels them.
var OpenTransactionStatuses = []string{
	TransactionStatusRequested,
	TransactionStatusConfirmed,
	TransactionStatusPickedUp,
}

// Return conditions recorded when a lender marks an item returned.
const (
	ReturnConditionGood      = "good"
	ReturnConditionMinorWear = "minor_wear"
	ReturnConditionDamaged   = "damaged"
	ReturnConditionBroken    = "broken"
)

// Transaction is one borrow/purchase request against a listing. The partial
// unique index keeps at most one open request per (listing, borrower) pair;
// the advisory pre-check in the service can race, the index cannot.
type Transaction struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ListingID  string `gorm:"type:uuid;not null;index;index:idx_open_request,unique,where:status = 'requested',priority:1" json:"listing_id"`
	BorrowerID string `gorm:"type:uuid;not null;index;index:idx_open_request,unique,priority:2" json:"borrower_id"`
	LenderID   string `gorm:"type:uuid;not null;index" json:"lender_id"`

	Quantity int    `gorm:"not null" json:"quantity"`
	Status   string `gorm:"size:20;not null;default:'requested'" json:"status"`

	ProposedPickupDate time.Time  `gorm:"not null" json:"proposed_pickup_date"`
	ProposedReturnDate *time.Time `json:"proposed_return_date"`

	ConfirmedPickupDate *time.Time `json:"confirmed_pickup_date"`
	ExpectedReturnDate  *time.Time `json:"expected_return_date"`
	ActualPickupDate    *time.Time `json:"actual_pickup_date"`
	ActualReturnDate    *time.Time `json:"actual_return_date"`

	BorrowerMessage string `gorm:"size:1000" json:"borrower_message"`
	LenderMessage   string `gorm:"size:1000" json:"lender_message"`
	RejectionReason string `gorm:"size:1000" json:"rejection_reason"`
	CancelReason    string `gorm:"size:1000" json:"cancel_reason"`

	ReturnCondition *string `gorm:"size:20" json:"return_condition"`
	ReturnNotes     string  `gorm:"size:1000" json:"return_notes"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Listing  Listing `gorm:"foreignKey:ListingID" json:"listing"`
	Borrower User    `gorm:"foreignKey:BorrowerID" json:"borrower"`
	Lender   User    `gorm:"foreignKey:LenderID" json:"lender"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsOpen reports whether the transaction still holds the listing open.
func (t *Transaction) IsOpen() bool {
	switch t.Status {
	case TransactionStatusRequested, TransactionStatusConfirmed, TransactionStatusPickedUp:
		return true
	}
	return false
}

// HoldsReservation reports whether inventory is currently committed to this
// transaction and must be released when it leaves its state.
func (t *Transaction) HoldsReservation() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusPickedUp
}

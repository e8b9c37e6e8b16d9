package services

import (
	"github.com/ecovilla/exchange-api/models"
	"gorm.io/gorm"
)

// InventoryLedger applies atomic quantity movements against a listing. Both
// operations take the caller's transaction handle so a reservation commits or
// rolls back together with the status change that caused it.
type InventoryLedger struct{}

// Reserve decrements available quantity by qty if and only if enough stock
// remains. The check and the decrement are a single conditional UPDATE, so
// two concurrent confirmations cannot oversell. It returns the remaining
// quantity and whether the listing is now exhausted (the caller pauses it).
func (InventoryLedger) Reserve(db *gorm.DB, listingID string, qty int) (remaining int, exhausted bool, err error) {
	if qty <= 0 {
		return 0, false, Validation("quantity must be positive")
	}

	res := db.Model(&models.Listing{}).
		Where("id = ? AND available_quantity >= ?", listingID, qty).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return 0, false, Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, Conflict(CodeInsufficientStock, "not enough quantity available")
	}

	if err := db.Model(&models.Listing{}).
		Select("available_quantity").
		Where("id = ?", listingID).
		Scan(&remaining).Error; err != nil {
		return 0, false, Unexpected(err)
	}

	return remaining, remaining == 0, nil
}

// Release returns a previously reserved quantity to the listing and re-opens
// it for new requests. Callers must only release quantities they reserved.
func (InventoryLedger) Release(db *gorm.DB, listingID string, qty int) (remaining int, err error) {
	if qty <= 0 {
		return 0, Validation("quantity must be positive")
	}

	res := db.Model(&models.Listing{}).
		Where("id = ?", listingID).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"is_available":       true,
		})
	if res.Error != nil {
		return 0, Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, NotFound("listing not found")
	}

	if err := db.Model(&models.Listing{}).
		Select("available_quantity").
		Where("id = ?", listingID).
		Scan(&remaining).Error; err != nil {
		return 0, Unexpected(err)
	}

	return remaining, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecovilla/exchange-api/models"
	"gorm.io/gorm"
)

type TransactionService struct {
	DB        *gorm.DB
	Inventory InventoryLedger
	Notifier  Notifier
}

func NewTransactionService(db *gorm.DB, notifier Notifier) *TransactionService {
	return &TransactionService{DB: db, Notifier: notifier}
}

type RequestInput struct {
	ListingID          string
	Quantity           int
	ProposedPickupDate time.Time
	ProposedReturnDate *time.Time
	Message            string
}

type ReturnInput struct {
	Condition string
	Notes     string
}

var validReturnConditions = map[string]bool{
	models.ReturnConditionGood:      true,
	models.ReturnConditionMinorWear: true,
	models.ReturnConditionDamaged:   true,
	models.ReturnConditionBroken:    true,
}

// Request creates a borrow request. The quantity check here is advisory:
// inventory is reserved at confirmation, not at request time, so concurrent
// requests may compete for the same stock and the first confirmation wins.
func (s *TransactionService) Request(ctx context.Context, actor Actor, in RequestInput) (*models.Transaction, error) {
	var listing models.Listing
	err := s.DB.Preload("Category").
		Where("id = ? AND tenant_id = ?", in.ListingID, actor.TenantID).
		First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("listing not found")
		}
		return nil, Unexpected(err)
	}

	if listing.CreatedBy == actor.ID {
		return nil, Forbidden("you cannot request your own listing")
	}
	if listing.Status != models.ListingStatusPublished || !listing.IsAvailable || listing.ArchivedAt != nil {
		return nil, Conflict(CodeListingUnavailable, "listing is not available for requests")
	}
	if in.Quantity < 1 {
		return nil, Validation("quantity must be at least 1")
	}
	if in.Quantity > listing.AvailableQuantity {
		return nil, Validation("requested quantity exceeds available quantity")
	}
	if in.ProposedPickupDate.IsZero() {
		return nil, Validation("pickup date is required")
	}
	if listing.Category.RequiresReturn && in.ProposedReturnDate == nil {
		return nil, Validation("return date is required for this category")
	}
	if in.ProposedReturnDate != nil && !in.ProposedReturnDate.After(in.ProposedPickupDate) {
		return nil, Validation("return date must be after pickup date")
	}

	var open int64
	err = s.DB.Model(&models.Transaction{}).
		Where("listing_id = ? AND borrower_id = ? AND status = ?",
			listing.ID, actor.ID, models.TransactionStatusRequested).
		Count(&open).Error
	if err != nil {
		return nil, Unexpected(err)
	}
	if open > 0 {
		return nil, Conflict(CodeOpenRequestExists, "you already have an open request for this listing")
	}

	transaction := models.Transaction{
		TenantID:           actor.TenantID,
		ListingID:          listing.ID,
		BorrowerID:         actor.ID,
		LenderID:           listing.CreatedBy,
		Quantity:           in.Quantity,
		Status:             models.TransactionStatusRequested,
		ProposedPickupDate: in.ProposedPickupDate,
		ProposedReturnDate: in.ProposedReturnDate,
		BorrowerMessage:    strings.TrimSpace(in.Message),
	}
	if err := s.DB.Create(&transaction).Error; err != nil {
		// The partial unique index is the real guard; the count above can race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict(CodeOpenRequestExists, "you already have an open request for this listing")
		}
		return nil, Unexpected(err)
	}

	s.Notifier.Notify(ctx, Notification{
		TenantID:       actor.TenantID,
		RecipientID:    listing.CreatedBy,
		Type:           NotifyExchangeRequest,
		Title:          "New borrow request",
		Message:        fmt.Sprintf("You have a new request for %s", listing.Title),
		ActionRequired: true,
		ListingID:      listing.ID,
		TransactionID:  transaction.ID,
	})

	return &transaction, nil
}

// getTenantTransaction loads a transaction with its listing, scoped to the
// actor's tenant.
func (s *TransactionService) getTenantTransaction(tenantID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.DB.Preload("Listing").Preload("Listing.Category").
		Where("id = ? AND tenant_id = ?", transactionID, tenantID).
		First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("transaction not found")
		}
		return nil, Unexpected(err)
	}
	return &transaction, nil
}

// Confirm approves a request. The quantity is re-validated here against
// current stock with an atomic reserve, guarding against drift between
// request and confirmation.
func (s *TransactionService) Confirm(ctx context.Context, actor Actor, transactionID, message string) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.LenderID != actor.ID {
		return nil, Forbidden("only the lender can confirm this request")
	}
	if transaction.Status != models.TransactionStatusRequested {
		return nil, Conflict(CodeAlreadyProcessed, "request was already processed")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		_, exhausted, err := s.Inventory.Reserve(tx, transaction.ListingID, transaction.Quantity)
		if err != nil {
			return err
		}
		if exhausted {
			// Auto-pause on exhaustion.
			if err := tx.Model(&models.Listing{}).
				Where("id = ?", transaction.ListingID).
				Update("is_available", false).Error; err != nil {
				return Unexpected(err)
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":                models.TransactionStatusConfirmed,
			"confirmed_at":          &now,
			"lender_message":        strings.TrimSpace(message),
			"confirmed_pickup_date": transaction.ProposedPickupDate,
			"expected_return_date":  transaction.ProposedReturnDate,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return Unexpected(err)
		}
		transaction.Status = models.TransactionStatusConfirmed
		transaction.ConfirmedAt = &now
		transaction.ExpectedReturnDate = transaction.ProposedReturnDate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   transaction.BorrowerID,
		Type:          NotifyExchangeConfirmed,
		Title:         "Request confirmed",
		Message:       fmt.Sprintf("Your request for %s was confirmed", transaction.Listing.Title),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// Reject declines a request. No inventory was reserved, so there is nothing
// to release.
func (s *TransactionService) Reject(ctx context.Context, actor Actor, transactionID, reason string) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.LenderID != actor.ID {
		return nil, Forbidden("only the lender can reject this request")
	}
	if transaction.Status != models.TransactionStatusRequested {
		return nil, Conflict(CodeAlreadyProcessed, "request was already processed")
	}

	now := time.Now()
	if err := s.DB.Model(transaction).Updates(map[string]interface{}{
		"status":           models.TransactionStatusRejected,
		"rejected_at":      &now,
		"rejection_reason": strings.TrimSpace(reason),
	}).Error; err != nil {
		return nil, Unexpected(err)
	}
	transaction.Status = models.TransactionStatusRejected
	transaction.RejectedAt = &now

	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   transaction.BorrowerID,
		Type:          NotifyExchangeRejected,
		Title:         "Request declined",
		Message:       fmt.Sprintf("Your request for %s was declined", transaction.Listing.Title),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// Cancel ends a transaction before pickup. Either party may cancel. Leaving
// the confirmed state releases the reservation; a plain request holds none.
func (s *TransactionService) Cancel(ctx context.Context, actor Actor, transactionID, reason string) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BorrowerID != actor.ID && transaction.LenderID != actor.ID {
		return nil, Forbidden("only the borrower or lender can cancel this transaction")
	}
	if transaction.Status != models.TransactionStatusRequested && transaction.Status != models.TransactionStatusConfirmed {
		return nil, Conflict(CodeAlreadyProcessed, "transaction can only be cancelled before pickup")
	}

	holdsReservation := transaction.HoldsReservation()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if holdsReservation {
			if _, err := s.Inventory.Release(tx, transaction.ListingID, transaction.Quantity); err != nil {
				return err
			}
		}
		now := time.Now()
		if err := tx.Model(transaction).Updates(map[string]interface{}{
			"status":        models.TransactionStatusCancelled,
			"cancelled_at":  &now,
			"cancel_reason": strings.TrimSpace(reason),
		}).Error; err != nil {
			return Unexpected(err)
		}
		transaction.Status = models.TransactionStatusCancelled
		transaction.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	recipient := transaction.LenderID
	notifyType := NotifyExchangeRequestCancelled
	if actor.ID == transaction.LenderID {
		recipient = transaction.BorrowerID
		notifyType = NotifyExchangeCancelled
	}
	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   recipient,
		Type:          notifyType,
		Title:         "Request cancelled",
		Message:       fmt.Sprintf("The request for %s was cancelled", transaction.Listing.Title),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// MarkPickedUp records the handover. Either party may do it. Categories that
// do not model a return complete immediately; their reservation is released
// unless the category consumes stock one-way.
func (s *TransactionService) MarkPickedUp(ctx context.Context, actor Actor, transactionID string) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BorrowerID != actor.ID && transaction.LenderID != actor.ID {
		return nil, Forbidden("only the borrower or lender can confirm pickup")
	}
	if transaction.Status != models.TransactionStatusConfirmed {
		return nil, Conflict(CodeAlreadyProcessed, "transaction must be confirmed before pickup")
	}

	category := transaction.Listing.Category
	now := time.Now()

	if !category.RequiresReturn {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if !category.Consumable {
				if _, err := s.Inventory.Release(tx, transaction.ListingID, transaction.Quantity); err != nil {
					return err
				}
			}
			if err := tx.Model(transaction).Updates(map[string]interface{}{
				"status":             models.TransactionStatusCompleted,
				"actual_pickup_date": &now,
				"completed_at":       &now,
			}).Error; err != nil {
				return Unexpected(err)
			}
			transaction.Status = models.TransactionStatusCompleted
			transaction.ActualPickupDate = &now
			transaction.CompletedAt = &now
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.Notifier.Notify(ctx, Notification{
			TenantID:      actor.TenantID,
			RecipientID:   otherParty(transaction, actor.ID),
			Type:          NotifyExchangeCompleted,
			Title:         "Transaction completed",
			Message:       fmt.Sprintf("Pickup of %s was confirmed and the transaction is complete", transaction.Listing.Title),
			ListingID:     transaction.ListingID,
			TransactionID: transaction.ID,
		})
		return transaction, nil
	}

	if err := s.DB.Model(transaction).Updates(map[string]interface{}{
		"status":             models.TransactionStatusPickedUp,
		"actual_pickup_date": &now,
	}).Error; err != nil {
		return nil, Unexpected(err)
	}
	transaction.Status = models.TransactionStatusPickedUp
	transaction.ActualPickupDate = &now

	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   otherParty(transaction, actor.ID),
		Type:          NotifyExchangePickedUp,
		Title:         "Item picked up",
		Message:       fmt.Sprintf("Pickup of %s was confirmed", transaction.Listing.Title),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// MarkReturned records the item coming back. Lender only. The reservation is
// released here: the stock is physically available again even before the
// record is finalized.
func (s *TransactionService) MarkReturned(ctx context.Context, actor Actor, transactionID string, in ReturnInput) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.LenderID != actor.ID {
		return nil, Forbidden("only the lender can mark items as returned")
	}
	if transaction.Status != models.TransactionStatusPickedUp {
		return nil, Conflict(CodeAlreadyProcessed, "transaction must be picked up before return")
	}
	if !validReturnConditions[in.Condition] {
		return nil, Validation("a valid return condition is required")
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Inventory.Release(tx, transaction.ListingID, transaction.Quantity); err != nil {
			return err
		}
		if err := tx.Model(transaction).Updates(map[string]interface{}{
			"status":             models.TransactionStatusReturned,
			"actual_return_date": &now,
			"return_condition":   in.Condition,
			"return_notes":       strings.TrimSpace(in.Notes),
		}).Error; err != nil {
			return Unexpected(err)
		}
		transaction.Status = models.TransactionStatusReturned
		transaction.ActualReturnDate = &now
		transaction.ReturnCondition = &in.Condition
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   transaction.BorrowerID,
		Type:          NotifyExchangeReturned,
		Title:         "Return confirmed",
		Message:       fmt.Sprintf("The return of %s was confirmed. Condition: %s", transaction.Listing.Title, in.Condition),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// Finalize closes a returned transaction. Lender only.
func (s *TransactionService) Finalize(ctx context.Context, actor Actor, transactionID string) (*models.Transaction, error) {
	transaction, err := s.getTenantTransaction(actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.LenderID != actor.ID {
		return nil, Forbidden("only the lender can complete this transaction")
	}
	if transaction.Status != models.TransactionStatusReturned {
		return nil, Conflict(CodeAlreadyProcessed, "transaction must be returned before completion")
	}

	now := time.Now()
	if err := s.DB.Model(transaction).Updates(map[string]interface{}{
		"status":       models.TransactionStatusCompleted,
		"completed_at": &now,
	}).Error; err != nil {
		return nil, Unexpected(err)
	}
	transaction.Status = models.TransactionStatusCompleted
	transaction.CompletedAt = &now

	s.Notifier.Notify(ctx, Notification{
		TenantID:      actor.TenantID,
		RecipientID:   transaction.BorrowerID,
		Type:          NotifyExchangeCompleted,
		Title:         "Transaction completed",
		Message:       fmt.Sprintf("Your transaction for %s is complete. Thank you!", transaction.Listing.Title),
		ListingID:     transaction.ListingID,
		TransactionID: transaction.ID,
	})

	return transaction, nil
}

// Mine returns the actor's transactions as borrower or lender, newest first.
func (s *TransactionService) Mine(ctx context.Context, actor Actor) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.DB.Preload("Listing").Preload("Listing.Category").
		Preload("Borrower").Preload("Lender").
		Where("tenant_id = ? AND (borrower_id = ? OR lender_id = ?)", actor.TenantID, actor.ID, actor.ID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, Unexpected(err)
	}
	return transactions, nil
}

func otherParty(t *models.Transaction, actorID string) string {
	if t.BorrowerID == actorID {
		return t.LenderID
	}
	return t.BorrowerID
}

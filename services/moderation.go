package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecovilla/exchange-api/models"
	"gorm.io/gorm"
)

const (
	flagReasonMinLen = 10
	flagReasonMaxLen = 500
)

type ModerationService struct {
	DB       *gorm.DB
	Listings *ListingService
	Notifier Notifier
}

func NewModerationService(db *gorm.DB, listings *ListingService, notifier Notifier) *ModerationService {
	return &ModerationService{DB: db, Listings: listings, Notifier: notifier}
}

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	// Character counts, not bytes: accented reasons must not slip under the
	// minimum or bounce off the maximum.
	if utf8.RuneCountInString(reason) < flagReasonMinLen {
		return "", Validation("reason must be at least %d characters", flagReasonMinLen)
	}
	if utf8.RuneCountInString(reason) > flagReasonMaxLen {
		return "", Validation("reason must be at most %d characters", flagReasonMaxLen)
	}
	return reason, nil
}

// Flag files one resident's report against a listing and returns the new
// flag count. The unique constraint on (listing_id, flagged_by) is the
// canonical duplicate guard.
func (s *ModerationService) Flag(ctx context.Context, actor Actor, listingID, reason string) (int64, error) {
	var listing models.Listing
	err := s.DB.Where("id = ? AND tenant_id = ?", listingID, actor.TenantID).First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, NotFound("listing not found")
		}
		return 0, Unexpected(err)
	}

	if listing.CreatedBy == actor.ID {
		return 0, Forbidden("you cannot flag your own listing")
	}

	reason, err = validateReason(reason)
	if err != nil {
		return 0, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		flag := models.Flag{
			TenantID:  actor.TenantID,
			ListingID: listing.ID,
			FlaggedBy: actor.ID,
			Reason:    reason,
		}
		if err := tx.Create(&flag).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict(CodeAlreadyFlagged, "you already flagged this listing")
			}
			return Unexpected(err)
		}

		now := time.Now()
		if err := tx.Model(&models.Listing{}).
			Where("id = ? AND is_flagged = ?", listing.ID, false).
			Updates(map[string]interface{}{"is_flagged": true, "flagged_at": &now}).Error; err != nil {
			return Unexpected(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.DB.Model(&models.Flag{}).Where("listing_id = ?", listing.ID).Count(&count).Error; err != nil {
		return 0, Unexpected(err)
	}

	s.Notifier.Notify(ctx, Notification{
		TenantID:    actor.TenantID,
		RecipientID: listing.CreatedBy,
		Type:        NotifyExchangeFlagged,
		Title:       "Listing flagged for review",
		Message:     fmt.Sprintf("Your listing %s was flagged and is under review", listing.Title),
		ListingID:   listing.ID,
	})

	return count, nil
}

// ListFlags returns the flags on a listing with reporter info. Admin only.
func (s *ModerationService) ListFlags(ctx context.Context, admin Actor, listingID string) ([]models.Flag, error) {
	if !admin.IsTenantAdmin {
		return nil, Forbidden("only a tenant admin can view flags")
	}

	var flags []models.Flag
	err := s.DB.Preload("Reporter").
		Where("listing_id = ? AND tenant_id = ?", listingID, admin.TenantID).
		Order("created_at DESC").
		Find(&flags).Error
	if err != nil {
		return nil, Unexpected(err)
	}
	return flags, nil
}

// Dismiss deletes one flag. Dismissing the last flag on a listing clears its
// flagged marker.
func (s *ModerationService) Dismiss(ctx context.Context, admin Actor, flagID string) error {
	if !admin.IsTenantAdmin {
		return Forbidden("only a tenant admin can dismiss flags")
	}

	var flag models.Flag
	err := s.DB.Where("id = ? AND tenant_id = ?", flagID, admin.TenantID).First(&flag).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return NotFound("flag not found")
		}
		return Unexpected(err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&flag).Error; err != nil {
			return Unexpected(err)
		}

		var remaining int64
		if err := tx.Model(&models.Flag{}).Where("listing_id = ?", flag.ListingID).Count(&remaining).Error; err != nil {
			return Unexpected(err)
		}
		if remaining == 0 {
			if err := tx.Model(&models.Listing{}).
				Where("id = ?", flag.ListingID).
				Updates(map[string]interface{}{"is_flagged": false, "flagged_at": nil}).Error; err != nil {
				return Unexpected(err)
			}
		}
		return nil
	})
}

// ClearAll deletes every flag on a listing and clears its flagged marker. A
// note, when supplied, is forwarded to the listing owner.
func (s *ModerationService) ClearAll(ctx context.Context, admin Actor, listingID, note string) error {
	if !admin.IsTenantAdmin {
		return Forbidden("only a tenant admin can clear flags")
	}

	var listing models.Listing
	err := s.DB.Where("id = ? AND tenant_id = ?", listingID, admin.TenantID).First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return NotFound("listing not found")
		}
		return Unexpected(err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Flag{}).Error; err != nil {
			return Unexpected(err)
		}
		if err := tx.Model(&models.Listing{}).
			Where("id = ?", listing.ID).
			Updates(map[string]interface{}{"is_flagged": false, "flagged_at": nil}).Error; err != nil {
			return Unexpected(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	note = strings.TrimSpace(note)
	if note != "" {
		s.Notifier.Notify(ctx, Notification{
			TenantID:    admin.TenantID,
			RecipientID: listing.CreatedBy,
			Type:        NotifyExchangeFlagResolved,
			Title:       "Flags cleared",
			Message:     fmt.Sprintf("The flags on %s were reviewed and cleared. Note: %s", listing.Title, note),
			ListingID:   listing.ID,
		})
	}
	return nil
}

// ArchiveForCause archives one listing for a mandatory, length-validated
// reason, cascading into its open transactions via the listing manager.
func (s *ModerationService) ArchiveForCause(ctx context.Context, admin Actor, listingID, reason string) error {
	if !admin.IsTenantAdmin {
		return Forbidden("only a tenant admin can archive for cause")
	}

	reason, err := validateReason(reason)
	if err != nil {
		return err
	}

	return s.Listings.AdminArchive(ctx, admin, []string{listingID}, reason)
}

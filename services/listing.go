package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecovilla/exchange-api/models"
	"gorm.io/gorm"
)

// archiveCascadeBatchSize caps the fan-out of one admin archive call. The
// whole cascade still runs inside a single database transaction, so it either
// applies completely or not at all.
const archiveCascadeBatchSize = 100

type ListingService struct {
	DB        *gorm.DB
	Inventory InventoryLedger
	Notifier  Notifier
}

func NewListingService(db *gorm.DB, notifier Notifier) *ListingService {
	return &ListingService{DB: db, Notifier: notifier}
}

// ListingInput carries the full editable field set of a listing. Create and
// Update both take it; Update treats it as a complete replacement.
type ListingInput struct {
	Title                 string
	Description           string
	CategoryID            string
	PricingType           string
	Price                 *float64
	Condition             *string
	AvailableQuantity     int
	VisibilityScope       string
	NeighborhoodIDs       []string
	LocationID            *string
	CustomLocationName    *string
	CustomLocationLat     *float64
	CustomLocationLng     *float64
	CustomLocationAddress *string
	PhotoURLs             []string
	Publish               bool
}

var validConditions = map[string]bool{
	models.ConditionNew:             true,
	models.ConditionSlightlyUsed:    true,
	models.ConditionUsed:            true,
	models.ConditionSlightlyDamaged: true,
	models.ConditionMaintenance:     true,
}

// validate checks the pricing, condition, visibility and location invariants
// against the tenant's category/neighborhood directories.
func (s *ListingService) validate(db *gorm.DB, tenantID string, in *ListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Validation("title is required")
	}
	if utf8.RuneCountInString(in.Title) > 200 {
		return Validation("title must be at most 200 characters")
	}

	if in.CategoryID == "" {
		return Validation("category is required")
	}
	var category models.Category
	if err := db.Where("id = ? AND tenant_id = ?", in.CategoryID, tenantID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Validation("category does not exist")
		}
		return Unexpected(err)
	}

	switch in.PricingType {
	case models.PricingFixedPrice:
		if in.Price == nil {
			return Validation("price is required for fixed price listings")
		}
		if *in.Price <= 0 {
			return Validation("price must be > 0")
		}
	case models.PricingFree, models.PricingPayWhatYouWant:
		if in.Price != nil {
			return Validation("price must not be set for %s listings", in.PricingType)
		}
	default:
		return Validation("invalid pricing type")
	}

	if in.Condition != nil {
		if !validConditions[*in.Condition] {
			return Validation("invalid condition")
		}
		// Condition is only meaningful for durable goods that come back.
		if !category.RequiresReturn {
			return Validation("condition does not apply to this category")
		}
	}

	if in.AvailableQuantity < 0 {
		return Validation("available quantity must not be negative")
	}

	switch in.VisibilityScope {
	case models.VisibilityCommunity:
	case models.VisibilityNeighborhood:
		if len(in.NeighborhoodIDs) == 0 {
			return Validation("at least one neighborhood is required for neighborhood visibility")
		}
		var count int64
		if err := db.Model(&models.Neighborhood{}).
			Where("id IN ? AND tenant_id = ?", in.NeighborhoodIDs, tenantID).
			Count(&count).Error; err != nil {
			return Unexpected(err)
		}
		if int(count) != len(in.NeighborhoodIDs) {
			return Validation("one or more neighborhoods do not exist")
		}
	default:
		return Validation("invalid visibility scope")
	}

	hasCustom := in.CustomLocationName != nil || in.CustomLocationLat != nil || in.CustomLocationLng != nil || in.CustomLocationAddress != nil
	if in.LocationID != nil && hasCustom {
		return Validation("listing may reference a location or carry a custom one, not both")
	}
	if hasCustom && (in.CustomLocationName == nil || in.CustomLocationLat == nil || in.CustomLocationLng == nil) {
		return Validation("custom location requires a name and coordinates")
	}

	return nil
}

func (s *ListingService) Create(ctx context.Context, actor Actor, in ListingInput) (*models.Listing, error) {
	if err := s.validate(s.DB, actor.TenantID, &in); err != nil {
		return nil, err
	}

	listing := models.Listing{
		TenantID:              actor.TenantID,
		CreatedBy:             actor.ID,
		CategoryID:            in.CategoryID,
		Title:                 in.Title,
		Description:           in.Description,
		Status:                models.ListingStatusDraft,
		IsAvailable:           true,
		PricingType:           in.PricingType,
		Price:                 in.Price,
		Condition:             in.Condition,
		AvailableQuantity:     in.AvailableQuantity,
		LocationID:            in.LocationID,
		CustomLocationName:    in.CustomLocationName,
		CustomLocationLat:     in.CustomLocationLat,
		CustomLocationLng:     in.CustomLocationLng,
		CustomLocationAddress: in.CustomLocationAddress,
		VisibilityScope:       in.VisibilityScope,
		PhotoURLs:             in.PhotoURLs,
	}
	if in.Publish {
		now := time.Now()
		listing.Status = models.ListingStatusPublished
		listing.PublishedAt = &now
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return Unexpected(err)
		}
		return s.replaceNeighborhoods(tx, &listing, in.NeighborhoodIDs)
	})
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

// replaceNeighborhoods swaps the association set wholesale. Edits are not
// diffed against the existing set.
func (s *ListingService) replaceNeighborhoods(tx *gorm.DB, listing *models.Listing, neighborhoodIDs []string) error {
	if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingNeighborhood{}).Error; err != nil {
		return Unexpected(err)
	}
	if listing.VisibilityScope != models.VisibilityNeighborhood {
		return nil
	}
	for _, nid := range neighborhoodIDs {
		assoc := models.ListingNeighborhood{
			TenantID:       listing.TenantID,
			ListingID:      listing.ID,
			NeighborhoodID: nid,
		}
		if err := tx.Create(&assoc).Error; err != nil {
			return Unexpected(err)
		}
	}
	return nil
}

// getTenantListing loads a listing scoped to the actor's tenant.
func (s *ListingService) getTenantListing(db *gorm.DB, tenantID, listingID string) (*models.Listing, error) {
	var listing models.Listing
	if err := db.Where("id = ? AND tenant_id = ?", listingID, tenantID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("listing not found")
		}
		return nil, Unexpected(err)
	}
	return &listing, nil
}

func (s *ListingService) hasActiveTransactions(db *gorm.DB, listingID string) (bool, error) {
	var count int64
	err := db.Model(&models.Transaction{}).
		Where("listing_id = ? AND status IN ?", listingID, models.OpenTransactionStatuses).
		Count(&count).Error
	if err != nil {
		return false, Unexpected(err)
	}
	return count > 0, nil
}

func (s *ListingService) Update(ctx context.Context, actor Actor, listingID string, in ListingInput) (*models.Listing, error) {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.CreatedBy != actor.ID {
		return nil, Forbidden("only the creator can edit this listing")
	}

	locked, err := s.hasActiveTransactions(s.DB, listing.ID)
	if err != nil {
		return nil, err
	}
	if locked {
		changed, cerr := s.nonQuantityFieldsChanged(listing, &in)
		if cerr != nil {
			return nil, cerr
		}
		if changed {
			return nil, Conflict(CodeActiveTransactionLock,
				"listing has active transactions; only available quantity may change")
		}
	}

	if err := s.validate(s.DB, actor.TenantID, &in); err != nil {
		return nil, err
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.CategoryID = in.CategoryID
	listing.PricingType = in.PricingType
	listing.Price = in.Price
	listing.Condition = in.Condition
	listing.AvailableQuantity = in.AvailableQuantity
	listing.VisibilityScope = in.VisibilityScope
	listing.LocationID = in.LocationID
	listing.CustomLocationName = in.CustomLocationName
	listing.CustomLocationLat = in.CustomLocationLat
	listing.CustomLocationLng = in.CustomLocationLng
	listing.CustomLocationAddress = in.CustomLocationAddress
	listing.PhotoURLs = in.PhotoURLs

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(listing).Error; err != nil {
			return Unexpected(err)
		}
		return s.replaceNeighborhoods(tx, listing, in.NeighborhoodIDs)
	})
	if err != nil {
		return nil, err
	}

	return listing, nil
}

// nonQuantityFieldsChanged compares the submitted field set against the
// stored listing, ignoring available quantity. Used to enforce the active
// transaction lock.
func (s *ListingService) nonQuantityFieldsChanged(listing *models.Listing, in *ListingInput) (bool, error) {
	if strings.TrimSpace(in.Title) != listing.Title ||
		in.Description != listing.Description ||
		in.CategoryID != listing.CategoryID ||
		in.PricingType != listing.PricingType ||
		in.VisibilityScope != listing.VisibilityScope ||
		!floatPtrEqual(in.Price, listing.Price) ||
		!strPtrEqual(in.Condition, listing.Condition) ||
		!strPtrEqual(in.LocationID, listing.LocationID) ||
		!strPtrEqual(in.CustomLocationName, listing.CustomLocationName) ||
		!floatPtrEqual(in.CustomLocationLat, listing.CustomLocationLat) ||
		!floatPtrEqual(in.CustomLocationLng, listing.CustomLocationLng) ||
		!strPtrEqual(in.CustomLocationAddress, listing.CustomLocationAddress) ||
		!stringSliceEqual(in.PhotoURLs, listing.PhotoURLs) {
		return true, nil
	}

	var assocs []models.ListingNeighborhood
	if err := s.DB.Where("listing_id = ?", listing.ID).Find(&assocs).Error; err != nil {
		return false, Unexpected(err)
	}
	current := make(map[string]bool, len(assocs))
	for _, a := range assocs {
		current[a.NeighborhoodID] = true
	}
	if len(current) != len(in.NeighborhoodIDs) {
		return true, nil
	}
	for _, nid := range in.NeighborhoodIDs {
		if !current[nid] {
			return true, nil
		}
	}
	return false, nil
}

// Pause toggles the availability flag. Creator only.
func (s *ListingService) Pause(ctx context.Context, actor Actor, listingID string) (bool, error) {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return false, err
	}
	if listing.CreatedBy != actor.ID {
		return false, Forbidden("only the creator can pause this listing")
	}

	listing.IsAvailable = !listing.IsAvailable
	if err := s.DB.Model(listing).Update("is_available", listing.IsAvailable).Error; err != nil {
		return false, Unexpected(err)
	}
	return listing.IsAvailable, nil
}

// Publish moves a draft to published, re-validating completeness at the
// moment of publishing since a draft may have been saved incomplete.
func (s *ListingService) Publish(ctx context.Context, actor Actor, listingID string) (*models.Listing, error) {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.CreatedBy != actor.ID {
		return nil, Forbidden("only the creator can publish this listing")
	}
	if listing.Status != models.ListingStatusDraft {
		return nil, Conflict(CodeNotDraft, "only draft listings can be published")
	}

	in, err := s.inputFromListing(listing)
	if err != nil {
		return nil, err
	}
	if err := s.validate(s.DB, actor.TenantID, in); err != nil {
		return nil, err
	}

	now := time.Now()
	listing.Status = models.ListingStatusPublished
	listing.PublishedAt = &now
	if err := s.DB.Model(listing).Updates(map[string]interface{}{
		"status":       listing.Status,
		"published_at": listing.PublishedAt,
	}).Error; err != nil {
		return nil, Unexpected(err)
	}
	return listing, nil
}

func (s *ListingService) inputFromListing(listing *models.Listing) (*ListingInput, error) {
	var assocs []models.ListingNeighborhood
	if err := s.DB.Where("listing_id = ?", listing.ID).Find(&assocs).Error; err != nil {
		return nil, Unexpected(err)
	}
	ids := make([]string, 0, len(assocs))
	for _, a := range assocs {
		ids = append(ids, a.NeighborhoodID)
	}
	return &ListingInput{
		Title:                 listing.Title,
		Description:           listing.Description,
		CategoryID:            listing.CategoryID,
		PricingType:           listing.PricingType,
		Price:                 listing.Price,
		Condition:             listing.Condition,
		AvailableQuantity:     listing.AvailableQuantity,
		VisibilityScope:       listing.VisibilityScope,
		NeighborhoodIDs:       ids,
		LocationID:            listing.LocationID,
		CustomLocationName:    listing.CustomLocationName,
		CustomLocationLat:     listing.CustomLocationLat,
		CustomLocationLng:     listing.CustomLocationLng,
		CustomLocationAddress: listing.CustomLocationAddress,
		PhotoURLs:             listing.PhotoURLs,
	}, nil
}

// Delete hard-deletes a listing. Refused while any transaction holds it open.
func (s *ListingService) Delete(ctx context.Context, actor Actor, listingID string) error {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return err
	}
	if listing.CreatedBy != actor.ID && !actor.IsTenantAdmin {
		return Forbidden("only the creator or a tenant admin can delete this listing")
	}

	active, err := s.hasActiveTransactions(s.DB, listing.ID)
	if err != nil {
		return err
	}
	if active {
		return Conflict(CodeHasActiveTransactions, "listing has active transactions and cannot be deleted")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingNeighborhood{}).Error; err != nil {
			return Unexpected(err)
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Flag{}).Error; err != nil {
			return Unexpected(err)
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Transaction{}).Error; err != nil {
			return Unexpected(err)
		}
		if err := tx.Delete(listing).Error; err != nil {
			return Unexpected(err)
		}
		return nil
	})
}

// Archive is the owner's self-archive. Unlike the admin archive it refuses to
// run while transactions are open instead of cancelling them.
func (s *ListingService) Archive(ctx context.Context, actor Actor, listingID string) error {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return err
	}
	if listing.CreatedBy != actor.ID {
		return Forbidden("only the creator can archive this listing")
	}

	active, err := s.hasActiveTransactions(s.DB, listing.ID)
	if err != nil {
		return err
	}
	if active {
		return Conflict(CodeHasActiveTransactions,
			"listing has active transactions; wait for them to complete before archiving")
	}

	now := time.Now()
	if err := s.DB.Model(listing).Updates(map[string]interface{}{
		"archived_at":  &now,
		"archived_by":  actor.ID,
		"is_available": false,
	}).Error; err != nil {
		return Unexpected(err)
	}
	return nil
}

// AdminArchive archives listings administratively and force-cancels every
// open transaction on them. The cascade and the archive run in one database
// transaction so a failure leaves nothing half-applied; notifications go out
// only after commit.
func (s *ListingService) AdminArchive(ctx context.Context, admin Actor, listingIDs []string, reason string) error {
	if !admin.IsTenantAdmin {
		return Forbidden("only a tenant admin can archive listings administratively")
	}
	if len(listingIDs) == 0 {
		return Validation("no listings selected")
	}

	// The ID set may repeat (double-selected rows); the existence check below
	// compares counts, so collapse duplicates first.
	seen := make(map[string]bool, len(listingIDs))
	unique := make([]string, 0, len(listingIDs))
	for _, id := range listingIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	listingIDs = unique

	var listings []models.Listing
	var cancelled []models.Transaction

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ? AND tenant_id = ?", listingIDs, admin.TenantID).Find(&listings).Error; err != nil {
			return Unexpected(err)
		}
		if len(listings) != len(listingIDs) {
			return NotFound("one or more listings not found")
		}

		for {
			var batch []models.Transaction
			if err := tx.Where("listing_id IN ? AND status IN ?", listingIDs, models.OpenTransactionStatuses).
				Order("created_at").
				Limit(archiveCascadeBatchSize).
				Find(&batch).Error; err != nil {
				return Unexpected(err)
			}
			if len(batch) == 0 {
				break
			}

			now := time.Now()
			for i := range batch {
				t := &batch[i]
				if t.HoldsReservation() {
					if _, err := s.Inventory.Release(tx, t.ListingID, t.Quantity); err != nil {
						return err
					}
				}
				if err := tx.Model(t).Updates(map[string]interface{}{
					"status":        models.TransactionStatusCancelled,
					"cancelled_at":  &now,
					"cancel_reason": "Listing was archived by an administrator",
				}).Error; err != nil {
					return Unexpected(err)
				}
				t.Status = models.TransactionStatusCancelled
			}
			cancelled = append(cancelled, batch...)
		}

		now := time.Now()
		if err := tx.Model(&models.Listing{}).
			Where("id IN ?", listingIDs).
			Updates(map[string]interface{}{
				"archived_at":    &now,
				"archived_by":    admin.ID,
				"archive_reason": reason,
				"is_available":   false,
			}).Error; err != nil {
			return Unexpected(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	titles := make(map[string]string, len(listings))
	for _, l := range listings {
		titles[l.ID] = l.Title
	}
	for _, t := range cancelled {
		s.Notifier.Notify(ctx, Notification{
			TenantID:      admin.TenantID,
			RecipientID:   t.BorrowerID,
			Type:          NotifyExchangeCancelled,
			Title:         "Request cancelled",
			Message:       fmt.Sprintf("Your request for %s was cancelled because the listing was archived by an administrator", titles[t.ListingID]),
			ListingID:     t.ListingID,
			TransactionID: t.ID,
		})
	}
	for _, l := range listings {
		msg := fmt.Sprintf("Your listing %s was archived by an administrator", l.Title)
		if reason != "" {
			msg = fmt.Sprintf("%s. Reason: %s", msg, reason)
		}
		s.Notifier.Notify(ctx, Notification{
			TenantID:    admin.TenantID,
			RecipientID: l.CreatedBy,
			Type:        NotifyExchangeAdminArchived,
			Title:       "Listing archived",
			Message:     msg,
			ListingID:   l.ID,
		})
	}

	return nil
}

// Unarchive restores an archived listing. Missing directory entries do not
// block restoration, they produce a warning instead.
func (s *ListingService) Unarchive(ctx context.Context, actor Actor, listingID string) (*models.Listing, string, error) {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return nil, "", err
	}
	if listing.CreatedBy != actor.ID && !actor.IsTenantAdmin {
		return nil, "", Forbidden("only the creator or a tenant admin can restore this listing")
	}
	if listing.ArchivedAt == nil {
		return nil, "", Validation("listing is not archived")
	}

	var warnings []string

	var categoryCount int64
	if err := s.DB.Model(&models.Category{}).
		Where("id = ? AND tenant_id = ?", listing.CategoryID, actor.TenantID).
		Count(&categoryCount).Error; err != nil {
		return nil, "", Unexpected(err)
	}
	if categoryCount == 0 {
		warnings = append(warnings, "its category no longer exists")
	}

	if listing.VisibilityScope == models.VisibilityNeighborhood {
		var assocCount int64
		if err := s.DB.Model(&models.ListingNeighborhood{}).
			Where("listing_id = ?", listing.ID).
			Count(&assocCount).Error; err != nil {
			return nil, "", Unexpected(err)
		}
		if assocCount == 0 {
			warnings = append(warnings, "its neighborhoods no longer exist")
		}
	}

	available := listing.AvailableQuantity > 0
	if !available {
		warnings = append(warnings, "it has zero quantity and is marked unavailable")
	}

	if err := s.DB.Model(listing).Updates(map[string]interface{}{
		"archived_at":    nil,
		"archived_by":    nil,
		"archive_reason": "",
		"status":         models.ListingStatusPublished,
		"is_available":   available,
	}).Error; err != nil {
		return nil, "", Unexpected(err)
	}
	listing.ArchivedAt = nil
	listing.ArchivedBy = nil
	listing.ArchiveReason = ""
	listing.Status = models.ListingStatusPublished
	listing.IsAvailable = available

	warning := ""
	if len(warnings) > 0 {
		warning = "Listing restored but " + strings.Join(warnings, "; ")
	}
	return listing, warning, nil
}

// Browse returns the tenant's published, non-archived listings, newest first.
func (s *ListingService) Browse(ctx context.Context, actor Actor, categoryID string) ([]models.Listing, error) {
	q := s.DB.Preload("Category").Preload("Creator").
		Where("tenant_id = ? AND status = ? AND archived_at IS NULL",
			actor.TenantID, models.ListingStatusPublished)
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var listings []models.Listing
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, Unexpected(err)
	}
	return listings, nil
}

// Get returns one listing. Drafts and archived listings are only visible to
// their creator and tenant admins.
func (s *ListingService) Get(ctx context.Context, actor Actor, listingID string) (*models.Listing, error) {
	var listing models.Listing
	err := s.DB.Preload("Category").Preload("Creator").
		Where("id = ? AND tenant_id = ?", listingID, actor.TenantID).
		First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("listing not found")
		}
		return nil, Unexpected(err)
	}

	hidden := listing.Status != models.ListingStatusPublished || listing.ArchivedAt != nil
	if hidden && listing.CreatedBy != actor.ID && !actor.IsTenantAdmin {
		return nil, NotFound("listing not found")
	}
	return &listing, nil
}

// ArchivedListings returns the actor's own archived listings with their
// completed transaction counts.
func (s *ListingService) ArchivedListings(ctx context.Context, actor Actor, offset, limit int) ([]models.Listing, map[string]int64, error) {
	if limit <= 0 {
		limit = 10
	}

	var listings []models.Listing
	err := s.DB.Preload("Category").
		Where("tenant_id = ? AND created_by = ? AND archived_at IS NOT NULL", actor.TenantID, actor.ID).
		Order("archived_at DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, nil, Unexpected(err)
	}

	counts := make(map[string]int64, len(listings))
	for _, l := range listings {
		var n int64
		if err := s.DB.Model(&models.Transaction{}).
			Where("listing_id = ? AND status = ?", l.ID, models.TransactionStatusCompleted).
			Count(&n).Error; err != nil {
			return nil, nil, Unexpected(err)
		}
		counts[l.ID] = n
	}
	return listings, counts, nil
}

// History returns the completed transactions of one listing. Creator only.
func (s *ListingService) History(ctx context.Context, actor Actor, listingID string, offset, limit int) ([]models.Transaction, error) {
	listing, err := s.getTenantListing(s.DB, actor.TenantID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.CreatedBy != actor.ID {
		return nil, Forbidden("only the creator can view this listing's history")
	}
	if limit <= 0 {
		limit = 10
	}

	var transactions []models.Transaction
	err = s.DB.Preload("Borrower").Preload("Lender").
		Where("listing_id = ? AND status = ?", listingID, models.TransactionStatusCompleted).
		Order("completed_at DESC").
		Offset(offset).Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, Unexpected(err)
	}
	return transactions, nil
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringSliceEqual(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ecovilla/exchange-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListingValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*ListingInput)
	}{
		{"missing title", func(in *ListingInput) { in.Title = "  " }},
		{"missing category", func(in *ListingInput) { in.CategoryID = "" }},
		{"unknown category", func(in *ListingInput) { in.CategoryID = f.owner.ID }},
		{"fixed price without price", func(in *ListingInput) {
			in.PricingType = models.PricingFixedPrice
			in.Price = nil
		}},
		{"fixed price with zero price", func(in *ListingInput) {
			in.PricingType = models.PricingFixedPrice
			in.Price = floatPtr(0)
		}},
		{"free with price", func(in *ListingInput) {
			in.PricingType = models.PricingFree
			in.Price = floatPtr(5)
		}},
		{"invalid pricing type", func(in *ListingInput) { in.PricingType = "barter" }},
		{"negative quantity", func(in *ListingInput) { in.AvailableQuantity = -1 }},
		{"invalid condition", func(in *ListingInput) { in.Condition = strPtr("pristine") }},
		{"condition on service category", func(in *ListingInput) {
			in.CategoryID = f.servicesCategory.ID
			in.Condition = strPtr(models.ConditionUsed)
		}},
		{"neighborhood scope without neighborhoods", func(in *ListingInput) {
			in.VisibilityScope = models.VisibilityNeighborhood
			in.NeighborhoodIDs = nil
		}},
		{"neighborhood scope with unknown neighborhood", func(in *ListingInput) {
			in.VisibilityScope = models.VisibilityNeighborhood
			in.NeighborhoodIDs = []string{f.owner.ID}
		}},
		{"both location kinds", func(in *ListingInput) {
			in.LocationID = strPtr(f.neighborhood.ID)
			in.CustomLocationName = strPtr("The barn")
			in.CustomLocationLat = floatPtr(9.55)
			in.CustomLocationLng = floatPtr(-84.12)
		}},
		{"custom location without coordinates", func(in *ListingInput) {
			in.CustomLocationName = strPtr("The barn")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.baseInput()
			tt.mutate(&in)
			_, err := f.listings.Create(context.Background(), f.owner, in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateFreeListingWithoutPrice(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.PricingType = models.PricingFree
	in.Price = nil

	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)
	assert.Nil(t, listing.Price)
	assert.False(t, listing.IsFlagged)
	assert.Nil(t, listing.ArchivedAt)
}

func TestCreateDraftThenPublish(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.Publish = false
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusDraft, listing.Status)
	assert.Nil(t, listing.PublishedAt)

	published, err := f.listings.Publish(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// Publishing twice is a state conflict, not a validation issue.
	_, err = f.listings.Publish(context.Background(), f.owner, listing.ID)
	assert.Equal(t, CodeNotDraft, CodeOf(err))
}

func TestPublishRevalidatesDraft(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.Publish = false
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)

	// The category disappeared between draft save and publish.
	require.NoError(t, f.db.Delete(&models.Category{}, "id = ?", f.toolsCategory.ID).Error)

	_, err = f.listings.Publish(context.Background(), f.owner, listing.ID)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPublishOwnerOnly(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.Publish = false
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)

	_, err = f.listings.Publish(context.Background(), f.borrower, listing.ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestDraftHiddenFromOthers(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.Publish = false
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)

	_, err = f.listings.Get(context.Background(), f.borrower, listing.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	got, err := f.listings.Get(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ID, got.ID)

	browsed, err := f.listings.Browse(context.Background(), f.borrower, "")
	require.NoError(t, err)
	assert.Empty(t, browsed)
}

func TestPauseTogglesAvailability(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	available, err := f.listings.Pause(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.False(t, available)

	available, err = f.listings.Pause(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = f.listings.Pause(context.Background(), f.borrower, listing.ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestUpdateOwnerOnly(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	_, err := f.listings.Update(context.Background(), f.borrower, listing.ID, f.baseInput())
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestUpdateActiveTransactionLock(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())
	f.request(t, f.borrower, listing, 1)

	in := f.baseInput()
	in.Title = "Cordless drill v2"
	_, err := f.listings.Update(context.Background(), f.owner, listing.ID, in)
	require.Error(t, err)
	assert.Equal(t, CodeActiveTransactionLock, CodeOf(err))

	// Only the quantity changed: allowed despite the open request.
	in = f.baseInput()
	in.AvailableQuantity = 5
	updated, err := f.listings.Update(context.Background(), f.owner, listing.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.AvailableQuantity)
}

func TestUpdateReplacesNeighborhoodsWholesale(t *testing.T) {
	f := newFixture(t)

	other := models.Neighborhood{TenantID: f.tenantID, Name: "South Village"}
	require.NoError(t, f.db.Create(&other).Error)

	in := f.baseInput()
	in.VisibilityScope = models.VisibilityNeighborhood
	in.NeighborhoodIDs = []string{f.neighborhood.ID}
	listing := f.publishListing(t, in)

	in.NeighborhoodIDs = []string{other.ID}
	_, err := f.listings.Update(context.Background(), f.owner, listing.ID, in)
	require.NoError(t, err)

	var assocs []models.ListingNeighborhood
	require.NoError(t, f.db.Where("listing_id = ?", listing.ID).Find(&assocs).Error)
	require.Len(t, assocs, 1)
	assert.Equal(t, other.ID, assocs[0].NeighborhoodID)
}

func TestDeleteGuardedByActiveTransactions(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())
	transaction := f.request(t, f.borrower, listing, 1)

	err := f.listings.Delete(context.Background(), f.owner, listing.ID)
	require.Error(t, err)
	assert.Equal(t, CodeHasActiveTransactions, CodeOf(err))

	_, err = f.transactions.Reject(context.Background(), f.owner, transaction.ID, "not this time")
	require.NoError(t, err)

	// Only terminal transactions remain, so deletion goes through.
	require.NoError(t, f.listings.Delete(context.Background(), f.owner, listing.ID))

	var count int64
	require.NoError(t, f.db.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteForbiddenForStrangers(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	err := f.listings.Delete(context.Background(), f.borrower, listing.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	// A tenant admin may delete listings they do not own.
	require.NoError(t, f.listings.Delete(context.Background(), f.admin, listing.ID))
}

func TestOwnerArchiveRefusedWithOpenTransactions(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())
	f.request(t, f.borrower, listing, 1)

	err := f.listings.Archive(context.Background(), f.owner, listing.ID)
	require.Error(t, err)
	assert.Equal(t, CodeHasActiveTransactions, CodeOf(err))
}

func TestOwnerArchiveSetsFlags(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	require.NoError(t, f.listings.Archive(context.Background(), f.owner, listing.ID))

	reloaded := f.reloadListing(t, listing.ID)
	require.NotNil(t, reloaded.ArchivedAt)
	assert.False(t, reloaded.IsAvailable)
	assert.Equal(t, "archived", reloaded.DisplayState())
}

func TestAdminArchiveCascadesToOpenTransactions(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.AvailableQuantity = 5
	listing := f.publishListing(t, in)

	requested := f.request(t, f.borrower, listing, 1)
	confirmedReq := f.request(t, f.second, listing, 2)
	confirmed, err := f.transactions.Confirm(context.Background(), f.owner, confirmedReq.ID, "")
	require.NoError(t, err)

	f.notifier.events = nil
	require.NoError(t, f.listings.AdminArchive(context.Background(), f.admin, []string{listing.ID}, "spam listing"))

	// Every open transaction is cancelled, none is left holding the listing.
	for _, id := range []string{requested.ID, confirmed.ID} {
		reloaded := f.reloadTransaction(t, id)
		assert.Equal(t, models.TransactionStatusCancelled, reloaded.Status)
		assert.NotNil(t, reloaded.CancelledAt)
	}
	var open int64
	require.NoError(t, f.db.Model(&models.Transaction{}).
		Where("listing_id = ? AND status IN ?", listing.ID, models.OpenTransactionStatuses).
		Count(&open).Error)
	assert.Zero(t, open)

	// The confirmed reservation was released before archiving froze the listing.
	reloaded := f.reloadListing(t, listing.ID)
	assert.Equal(t, 5, reloaded.AvailableQuantity)
	assert.False(t, reloaded.IsAvailable)
	require.NotNil(t, reloaded.ArchivedAt)
	assert.Equal(t, "spam listing", reloaded.ArchiveReason)

	// Both borrowers and the owner were told.
	assert.Len(t, f.notifier.ofType(NotifyExchangeCancelled), 2)
	require.Len(t, f.notifier.ofType(NotifyExchangeAdminArchived), 1)
	assert.Equal(t, f.owner.ID, f.notifier.ofType(NotifyExchangeAdminArchived)[0].RecipientID)
}

func TestAdminArchiveRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	err := f.listings.AdminArchive(context.Background(), f.owner, []string{listing.ID}, "reason")
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestAdminArchiveUnknownListingFailsAtomically(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	err := f.listings.AdminArchive(context.Background(), f.admin, []string{listing.ID, f.owner.ID}, "reason")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	// Nothing was archived.
	assert.Nil(t, f.reloadListing(t, listing.ID).ArchivedAt)
}

func TestUnarchiveRestoresListing(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())
	require.NoError(t, f.listings.Archive(context.Background(), f.owner, listing.ID))

	restored, warning, err := f.listings.Unarchive(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Nil(t, restored.ArchivedAt)
	assert.True(t, restored.IsAvailable)
	assert.Equal(t, models.ListingStatusPublished, restored.Status)
}

func TestUnarchiveWarnsInsteadOfFailing(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.AvailableQuantity = 0
	listing := f.publishListing(t, in)
	require.NoError(t, f.listings.Archive(context.Background(), f.owner, listing.ID))

	// The category was removed while the listing sat archived.
	require.NoError(t, f.db.Delete(&models.Category{}, "id = ?", f.toolsCategory.ID).Error)

	restored, warning, err := f.listings.Unarchive(context.Background(), f.owner, listing.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Contains(t, warning, "category")
	assert.False(t, restored.IsAvailable)
}

func TestZeroValuedPolicyFieldsPersist(t *testing.T) {
	f := newFixture(t)

	// Round-trip through the database: a no-return category must not come
	// back as requiring a return, and a zero quantity must stay zero.
	var category models.Category
	require.NoError(t, f.db.First(&category, "id = ?", f.servicesCategory.ID).Error)
	assert.False(t, category.RequiresReturn)
	assert.False(t, category.Consumable)

	in := f.baseInput()
	in.AvailableQuantity = 0
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, 0, f.reloadListing(t, listing.ID).AvailableQuantity)
}

func TestTitleLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)

	in := f.baseInput()
	in.Title = strings.Repeat("é", 200)
	_, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)

	in = f.baseInput()
	in.Title = strings.Repeat("é", 201)
	_, err = f.listings.Create(context.Background(), f.owner, in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAdminArchiveToleratesDuplicateIDs(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	ids := []string{listing.ID, listing.ID}
	err := f.listings.AdminArchive(context.Background(), f.admin, ids, "double-selected in the admin table")
	require.NoError(t, err)
	assert.NotNil(t, f.reloadListing(t, listing.ID).ArchivedAt)
}

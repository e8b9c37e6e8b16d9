package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ecovilla/exchange-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flagReason = "item pictured does not match the description"

func TestFlagValidation(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	tests := []struct {
		name   string
		actor  Actor
		id     string
		reason string
		kind   Kind
	}{
		{"own listing", f.owner, listing.ID, flagReason, KindForbidden},
		{"unknown listing", f.borrower, f.borrower.ID, flagReason, KindNotFound},
		{"reason too short", f.borrower, listing.ID, "spam", KindValidation},
		{"reason too long", f.borrower, listing.ID, strings.Repeat("x", 501), KindValidation},
		{"reason all whitespace", f.borrower, listing.ID, "             ", KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.moderation.Flag(context.Background(), tt.actor, tt.id, tt.reason)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestFlagCountsDistinctReporters(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	count, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	reloaded := f.reloadListing(t, listing.ID)
	assert.True(t, reloaded.IsFlagged)
	assert.NotNil(t, reloaded.FlaggedAt)

	count, err = f.moderation.Flag(context.Background(), f.second, listing.ID, "pickup spot is outside the community")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Same reporter again is rejected, not double counted.
	_, err = f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.Error(t, err)
	assert.Equal(t, CodeAlreadyFlagged, CodeOf(err))

	flags, err := f.moderation.ListFlags(context.Background(), f.admin, listing.ID)
	require.NoError(t, err)
	assert.Len(t, flags, 2)
}

func TestFlagNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	f.notifier.events = nil
	_, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.NoError(t, err)

	events := f.notifier.ofType(NotifyExchangeFlagged)
	require.Len(t, events, 1)
	assert.Equal(t, f.owner.ID, events[0].RecipientID)
	assert.Equal(t, listing.ID, events[0].ListingID)
}

func TestListFlagsAdminOnly(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	_, err := f.moderation.ListFlags(context.Background(), f.borrower, listing.ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestDismissLastFlagClearsMarker(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	_, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.NoError(t, err)
	_, err = f.moderation.Flag(context.Background(), f.second, listing.ID, "listing looks like a commercial ad")
	require.NoError(t, err)

	flags, err := f.moderation.ListFlags(context.Background(), f.admin, listing.ID)
	require.NoError(t, err)
	require.Len(t, flags, 2)

	require.NoError(t, f.moderation.Dismiss(context.Background(), f.admin, flags[0].ID))
	assert.True(t, f.reloadListing(t, listing.ID).IsFlagged)

	require.NoError(t, f.moderation.Dismiss(context.Background(), f.admin, flags[1].ID))
	reloaded := f.reloadListing(t, listing.ID)
	assert.False(t, reloaded.IsFlagged)
	assert.Nil(t, reloaded.FlaggedAt)
}

func TestDismissAdminOnly(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	_, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.NoError(t, err)

	flags, err := f.moderation.ListFlags(context.Background(), f.admin, listing.ID)
	require.NoError(t, err)
	require.Len(t, flags, 1)

	err = f.moderation.Dismiss(context.Background(), f.borrower, flags[0].ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestClearAllNotifiesOnlyWithNote(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	_, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, flagReason)
	require.NoError(t, err)

	f.notifier.events = nil
	require.NoError(t, f.moderation.ClearAll(context.Background(), f.admin, listing.ID, "   "))
	assert.Empty(t, f.notifier.ofType(NotifyExchangeFlagResolved))

	reloaded := f.reloadListing(t, listing.ID)
	assert.False(t, reloaded.IsFlagged)

	// Flag again and clear with a note this time.
	_, err = f.moderation.Flag(context.Background(), f.second, listing.ID, flagReason)
	require.NoError(t, err)

	f.notifier.events = nil
	require.NoError(t, f.moderation.ClearAll(context.Background(), f.admin, listing.ID, "reviewed, listing is fine"))

	events := f.notifier.ofType(NotifyExchangeFlagResolved)
	require.Len(t, events, 1)
	assert.Equal(t, f.owner.ID, events[0].RecipientID)
	assert.Contains(t, events[0].Message, "reviewed, listing is fine")
}

func TestArchiveForCauseRequiresReason(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	err := f.moderation.ArchiveForCause(context.Background(), f.admin, listing.ID, "")
	assert.Equal(t, KindValidation, KindOf(err))

	err = f.moderation.ArchiveForCause(context.Background(), f.admin, listing.ID, "bad")
	assert.Equal(t, KindValidation, KindOf(err))

	err = f.moderation.ArchiveForCause(context.Background(), f.borrower, listing.ID, flagReason)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestArchiveForCauseCascades(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	transaction := f.request(t, f.borrower, listing, 1)
	_, err := f.transactions.Confirm(context.Background(), f.owner, transaction.ID, "")
	require.NoError(t, err)
	require.Equal(t, 1, f.reloadListing(t, listing.ID).AvailableQuantity)

	reason := "repeated reports of a commercial resale operation"
	require.NoError(t, f.moderation.ArchiveForCause(context.Background(), f.admin, listing.ID, reason))

	reloaded := f.reloadListing(t, listing.ID)
	assert.NotNil(t, reloaded.ArchivedAt)
	assert.False(t, reloaded.IsAvailable)
	assert.Equal(t, reason, reloaded.ArchiveReason)
	assert.Equal(t, 2, reloaded.AvailableQuantity)

	assert.Equal(t, models.TransactionStatusCancelled, f.reloadTransaction(t, transaction.ID).Status)
}

func TestReasonLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)
	listing := f.publishListing(t, f.baseInput())

	// Multibyte runes count once each: five accented characters are under
	// the minimum, three hundred are well under the maximum.
	_, err := f.moderation.Flag(context.Background(), f.borrower, listing.ID, strings.Repeat("é", 5))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = f.moderation.Flag(context.Background(), f.borrower, listing.ID, strings.Repeat("é", 300))
	require.NoError(t, err)
}

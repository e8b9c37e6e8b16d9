package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ecovilla/exchange-api/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Neighborhood{},
		&models.Listing{},
		&models.ListingNeighborhood{},
		&models.Transaction{},
		&models.Flag{},
	))

	return db
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, ev Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) ofType(tp string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Notification
	for _, ev := range n.events {
		if ev.Type == tp {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	notifier *recordingNotifier

	listings     *ListingService
	transactions *TransactionService
	moderation   *ModerationService

	tenantID string
	owner    Actor
	borrower Actor
	second   Actor
	admin    Actor

	toolsCategory      models.Category // durable, requires return
	servicesCategory   models.Category // no return, reusable capacity
	consumableCategory models.Category // no return, one-way stock
	neighborhood       models.Neighborhood
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:       newTestDB(t),
		notifier: &recordingNotifier{},
		tenantID: uuid.NewString(),
	}
	f.listings = NewListingService(f.db, f.notifier)
	f.transactions = NewTransactionService(f.db, f.notifier)
	f.moderation = NewModerationService(f.db, f.listings, f.notifier)

	f.owner = f.seedUser(t, "owner@example.com", false)
	f.borrower = f.seedUser(t, "borrower@example.com", false)
	f.second = f.seedUser(t, "second@example.com", false)
	f.admin = f.seedUser(t, "admin@example.com", true)

	f.toolsCategory = f.seedCategory(t, "Tools & Equipment", true, false)
	f.servicesCategory = f.seedCategory(t, "Services & Skills", false, false)
	f.consumableCategory = f.seedCategory(t, "Food & Produce", false, true)

	f.neighborhood = models.Neighborhood{TenantID: f.tenantID, Name: "North Village"}
	require.NoError(t, f.db.Create(&f.neighborhood).Error)

	return f
}

func (f *fixture) seedUser(t *testing.T, email string, admin bool) Actor {
	t.Helper()
	user := models.User{TenantID: f.tenantID, Email: email, IsTenantAdmin: admin}
	require.NoError(t, f.db.Create(&user).Error)
	return Actor{ID: user.ID, TenantID: f.tenantID, IsTenantAdmin: admin}
}

func (f *fixture) seedCategory(t *testing.T, name string, requiresReturn, consumable bool) models.Category {
	t.Helper()
	category := models.Category{
		TenantID:       f.tenantID,
		Name:           name,
		RequiresReturn: requiresReturn,
		Consumable:     consumable,
	}
	require.NoError(t, f.db.Create(&category).Error)
	return category
}

// baseInput returns a valid published listing in the tools category.
func (f *fixture) baseInput() ListingInput {
	return ListingInput{
		Title:             "Cordless drill",
		Description:       "18V with two batteries",
		CategoryID:        f.toolsCategory.ID,
		PricingType:       models.PricingFree,
		AvailableQuantity: 2,
		VisibilityScope:   models.VisibilityCommunity,
		Publish:           true,
	}
}

func (f *fixture) publishListing(t *testing.T, in ListingInput) *models.Listing {
	t.Helper()
	listing, err := f.listings.Create(context.Background(), f.owner, in)
	require.NoError(t, err)
	return listing
}

// request files a borrow request from the given actor with sensible dates.
func (f *fixture) request(t *testing.T, actor Actor, listing *models.Listing, qty int) *models.Transaction {
	t.Helper()
	pickup := time.Now().Add(24 * time.Hour)
	ret := pickup.Add(72 * time.Hour)

	in := RequestInput{
		ListingID:          listing.ID,
		Quantity:           qty,
		ProposedPickupDate: pickup,
	}
	var category models.Category
	require.NoError(t, f.db.First(&category, "id = ?", listing.CategoryID).Error)
	if category.RequiresReturn {
		in.ProposedReturnDate = &ret
	}

	transaction, err := f.transactions.Request(context.Background(), actor, in)
	require.NoError(t, err)
	return transaction
}

func (f *fixture) reloadListing(t *testing.T, id string) *models.Listing {
	t.Helper()
	var listing models.Listing
	require.NoError(t, f.db.First(&listing, "id = ?", id).Error)
	return &listing
}

func (f *fixture) reloadTransaction(t *testing.T, id string) *models.Transaction {
	t.Helper()
	var transaction models.Transaction
	require.NoError(t, f.db.First(&transaction, "id = ?", id).Error)
	return &transaction
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

package persistence

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	apppurchase "github.com/essentials/backend/internal/application/purchase"
	"github.com/essentials/backend/internal/domain/catalog"
	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/partner"
	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// scopeTestEnv wires a real PurchaseService onto an in-memory sqlite database
// so transactional behavior is observed against actual commits and rollbacks.
type scopeTestEnv struct {
	t          *testing.T
	db         *gorm.DB
	svc        *apppurchase.PurchaseService
	orgID      uuid.UUID
	locationID uuid.UUID
}

func newScopeTestEnv(t *testing.T) *scopeTestEnv {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&partner.StorageLocation{},
		&partner.Vendor{},
		&catalog.Item{},
		&purchase.Purchase{},
		&purchase.LineItem{},
		&inventory.InventoryItem{},
	))

	orgID := uuid.New()
	location, err := partner.NewStorageLocation(orgID, "Main Warehouse", "100 Main St")
	require.NoError(t, err)
	require.NoError(t, db.Create(location).Error)

	svc := apppurchase.NewPurchaseService(
		NewGormPurchaseRepository(db),
		NewGormTransactionScope(db),
	)

	return &scopeTestEnv{
		t:          t,
		db:         db,
		svc:        svc,
		orgID:      orgID,
		locationID: location.ID,
	}
}

func (e *scopeTestEnv) createItem(name string) uuid.UUID {
	item, err := catalog.NewItem(e.orgID, name, "disposable")
	require.NoError(e.t, err)
	require.NoError(e.t, e.db.Create(item).Error)
	return item.ID
}

func (e *scopeTestEnv) onHand(itemID uuid.UUID) int64 {
	repo := NewGormInventoryItemRepository(e.db)
	record, err := repo.FindByLocationAndItem(context.Background(), e.orgID, e.locationID, itemID)
	if err != nil {
		require.ErrorIs(e.t, err, shared.ErrNotFound)
		return 0
	}
	return record.Quantity
}

func (e *scopeTestEnv) reload(purchaseID uuid.UUID) *purchase.Purchase {
	p, err := NewGormPurchaseRepository(e.db).FindByIDForOrg(context.Background(), e.orgID, purchaseID)
	require.NoError(e.t, err)
	return p
}

func TestGormTransactionScope_CommitsPurchaseAndLedgerTogether(t *testing.T) {
	env := newScopeTestEnv(t)
	ctx := context.Background()
	itemID := env.createItem("Pads Size 4")

	created, err := env.svc.Create(ctx, env.orgID, apppurchase.CreatePurchaseRequest{
		StorageLocationID: env.locationID,
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: itemID, Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.TotalQuantity)
	assert.Equal(t, int64(5), env.onHand(itemID))

	// A shrink on an uncontended purchase must go through and reconcile
	// the ledger down to the new quantity.
	replaced, err := env.svc.ReplaceLineItems(ctx, env.orgID, created.ID, apppurchase.ReplaceLineItemsRequest{
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: itemID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), replaced.TotalQuantity)
	assert.Equal(t, 2, replaced.Version)
	assert.Equal(t, int64(2), env.onHand(itemID))

	stored := env.reload(created.ID)
	assert.Equal(t, map[uuid.UUID]int64{itemID: 2}, stored.QuantityByItem())
	assert.Equal(t, 2, stored.Version)
}

func TestGormTransactionScope_RollsBackOnUnderflow(t *testing.T) {
	env := newScopeTestEnv(t)
	ctx := context.Background()

	first := env.createItem("Diapers Size 2")
	second := env.createItem("Wipes")
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	created, err := env.svc.Create(ctx, env.orgID, apppurchase.CreatePurchaseRequest{
		StorageLocationID: env.locationID,
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: first, Quantity: 5},
			{ItemID: second, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// Drain most of the second item's stock behind the service's back so
	// removing its line item decrements more than is on hand.
	require.NoError(t, env.db.Model(&inventory.InventoryItem{}).
		Where("organization_id = ? AND item_id = ?", env.orgID, second).
		Update("quantity", 1).Error)

	// Deltas apply in item-id order: the first item's increment lands
	// before the second item's decrement fails.
	_, err = env.svc.ReplaceLineItems(ctx, env.orgID, created.ID, apppurchase.ReplaceLineItemsRequest{
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: first, Quantity: 9},
			{ItemID: second, Quantity: 0},
		},
	})
	require.ErrorIs(t, err, shared.ErrInventoryUnderflow)

	// The already-applied increment and the line-item rewrite must both
	// be rolled back
	assert.Equal(t, int64(5), env.onHand(first))
	assert.Equal(t, int64(1), env.onHand(second))

	stored := env.reload(created.ID)
	assert.Equal(t, map[uuid.UUID]int64{first: 5, second: 3}, stored.QuantityByItem())
	assert.Equal(t, 1, stored.Version)
}

func TestGormTransactionScope_RollsBackOnUnknownItemReference(t *testing.T) {
	env := newScopeTestEnv(t)
	ctx := context.Background()
	itemID := env.createItem("Adult Briefs M")

	created, err := env.svc.Create(ctx, env.orgID, apppurchase.CreatePurchaseRequest{
		StorageLocationID: env.locationID,
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: itemID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	_, err = env.svc.ReplaceLineItems(ctx, env.orgID, created.ID, apppurchase.ReplaceLineItemsRequest{
		LineItems: []apppurchase.LineItemEntryRequest{
			{ItemID: uuid.New(), Quantity: 2},
		},
	})
	require.ErrorIs(t, err, purchase.ErrInvalidLineItem)

	assert.Equal(t, int64(4), env.onHand(itemID))
	stored := env.reload(created.ID)
	assert.Equal(t, map[uuid.UUID]int64{itemID: 4}, stored.QuantityByItem())
	assert.Equal(t, 1, stored.Version)
}

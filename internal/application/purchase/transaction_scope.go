package purchase

import (
	"context"

	"github.com/essentials/backend/internal/domain/catalog"
	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/partner"
	"github.com/essentials/backend/internal/domain/purchase"
)

// TransactionScope provides transactional access to the repositories a
// purchase reconciliation touches. When a function runs within a scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically: the line-item replacement and every ledger delta
// are observable together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories participating
// in a purchase transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// Purchases returns the purchase repository scoped to the current transaction
	Purchases() purchase.PurchaseRepository
	// Inventory returns the inventory ledger repository scoped to the current transaction
	Inventory() inventory.InventoryItemRepository
	// Items returns the catalog item repository scoped to the current transaction
	Items() catalog.ItemRepository
	// Locations returns the storage location repository scoped to the current transaction
	Locations() partner.StorageLocationRepository
	// Vendors returns the vendor repository scoped to the current transaction
	Vendors() partner.VendorRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	purchaseRepo  purchase.PurchaseRepository
	inventoryRepo inventory.InventoryItemRepository
	itemRepo      catalog.ItemRepository
	locationRepo  partner.StorageLocationRepository
	vendorRepo    partner.VendorRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	purchaseRepo purchase.PurchaseRepository,
	inventoryRepo inventory.InventoryItemRepository,
	itemRepo catalog.ItemRepository,
	locationRepo partner.StorageLocationRepository,
	vendorRepo partner.VendorRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseRepo:  purchaseRepo,
		inventoryRepo: inventoryRepo,
		itemRepo:      itemRepo,
		locationRepo:  locationRepo,
		vendorRepo:    vendorRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Purchases returns the purchase repository.
func (s *NoOpTransactionScope) Purchases() purchase.PurchaseRepository {
	return s.purchaseRepo
}

// Inventory returns the inventory ledger repository.
func (s *NoOpTransactionScope) Inventory() inventory.InventoryItemRepository {
	return s.inventoryRepo
}

// Items returns the catalog item repository.
func (s *NoOpTransactionScope) Items() catalog.ItemRepository {
	return s.itemRepo
}

// Locations returns the storage location repository.
func (s *NoOpTransactionScope) Locations() partner.StorageLocationRepository {
	return s.locationRepo
}

// Vendors returns the vendor repository.
func (s *NoOpTransactionScope) Vendors() partner.VendorRepository {
	return s.vendorRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)

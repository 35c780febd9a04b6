package persistence

import (
	"context"

	apppurchase "github.com/essentials/backend/internal/application/purchase"
	"github.com/essentials/backend/internal/domain/catalog"
	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/partner"
	"github.com/essentials/backend/internal/domain/purchase"
	"gorm.io/gorm"
)

// GormTransactionScope runs a unit of work inside a single database
// transaction. Every repository handed to the closure is bound to that
// transaction, so a purchase write and its inventory reconciliation commit
// or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppurchase.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Purchases() purchase.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) Inventory() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Locations() partner.StorageLocationRepository {
	return NewGormStorageLocationRepository(r.tx)
}

func (r *gormTransactionalRepositories) Vendors() partner.VendorRepository {
	return NewGormVendorRepository(r.tx)
}

// Ensure the implementations satisfy the application contracts
var (
	_ apppurchase.TransactionScope          = (*GormTransactionScope)(nil)
	_ apppurchase.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)

package inventory

import (
	"context"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItemRepository defines the interface for inventory ledger persistence.
// Implementations used inside a reconciliation must give the caller
// read-modify-write isolation per (location, item) row; the gorm implementation
// relies on the surrounding transaction plus version checks on Save.
type InventoryItemRepository interface {
	// FindByID finds an inventory record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByLocationAndItem finds the record for a location-item combination
	FindByLocationAndItem(ctx context.Context, organizationID, storageLocationID, itemID uuid.UUID) (*InventoryItem, error)

	// FindByLocation finds all inventory records at a storage location
	FindByLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindAllForOrg finds all inventory records for an organization
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// GetOrCreate returns the record for a location-item combination, creating
	// an empty one if none exists
	GetOrCreate(ctx context.Context, organizationID, storageLocationID, itemID uuid.UUID) (*InventoryItem, error)

	// Save creates or updates an inventory record
	Save(ctx context.Context, item *InventoryItem) error

	// Delete deletes an inventory record
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByLocation counts inventory records at a storage location
	CountByLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID) (int64, error)

	// SumQuantityByItem sums on-hand quantity for an item across all locations
	SumQuantityByItem(ctx context.Context, organizationID, itemID uuid.UUID) (int64, error)
}

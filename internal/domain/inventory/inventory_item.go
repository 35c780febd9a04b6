package inventory

import (
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItem is the ledger record of quantity on hand for one catalog item
// at one storage location. The composite identifier is
// StorageLocationID + ItemID within an organization.
//
// Lifecycle: created lazily on the first increment for a (location, item)
// pair, and deleted when a decrement lands the quantity at exactly zero.
// A record never persists with a non-positive quantity.
type InventoryItem struct {
	shared.OrgAggregateRoot
	StorageLocationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_location_item,priority:1"`
	ItemID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_location_item,priority:2"`
	Quantity          int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new, empty inventory record for a
// location-item combination
func NewInventoryItem(organizationID, storageLocationID, itemID uuid.UUID) (*InventoryItem, error) {
	if storageLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORAGE_LOCATION", "Storage location ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}

	return &InventoryItem{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(organizationID),
		StorageLocationID: storageLocationID,
		ItemID:            itemID,
		Quantity:          0,
	}, nil
}

// Increase adds quantity to the record
func (i *InventoryItem) Increase(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Increase quantity must be positive")
	}

	i.Quantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewStockAdjustedEvent(i, quantity))

	return nil
}

// Decrease removes quantity from the record. Driving the quantity below zero
// is an underflow: the caller asked to take out more than is on hand, and the
// result is rejected rather than persisted.
func (i *InventoryItem) Decrease(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrease quantity must be positive")
	}
	if i.Quantity-quantity < 0 {
		return shared.ErrInventoryUnderflow
	}

	i.Quantity -= quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewStockAdjustedEvent(i, -quantity))
	if i.Quantity == 0 {
		i.AddDomainEvent(NewStockDepletedEvent(i))
	}

	return nil
}

// IsDepleted reports whether the record holds no stock and should be retired
func (i *InventoryItem) IsDepleted() bool {
	return i.Quantity == 0
}

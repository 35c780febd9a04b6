package inventory

import (
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockAdjusted = "StockAdjusted"
	EventTypeStockDepleted = "StockDepleted"
)

// StockAdjustedEvent is published when a ledger record's quantity changes.
// Delta is positive for increments and negative for decrements.
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StorageLocationID uuid.UUID `json:"storage_location_id"`
	ItemID            uuid.UUID `json:"item_id"`
	Delta             int64     `json:"delta"`
	NewQuantity       int64     `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID, item.OrganizationID),
		StorageLocationID: item.StorageLocationID,
		ItemID:            item.ItemID,
		Delta:             delta,
		NewQuantity:       item.Quantity,
	}
}

// StockDepletedEvent is published when a decrement lands a ledger record at
// exactly zero and the record is about to be retired.
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	StorageLocationID uuid.UUID `json:"storage_location_id"`
	ItemID            uuid.UUID `json:"item_id"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(item *InventoryItem) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeInventoryItem, item.ID, item.OrganizationID),
		StorageLocationID: item.StorageLocationID,
		ItemID:            item.ItemID,
	}
}

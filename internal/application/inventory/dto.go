package inventory

import (
	"time"

	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// InventoryItemResponse represents one ledger record in API responses
type InventoryItemResponse struct {
	ID                uuid.UUID `json:"id"`
	OrganizationID    uuid.UUID `json:"organization_id"`
	StorageLocationID uuid.UUID `json:"storage_location_id"`
	ItemID            uuid.UUID `json:"item_id"`
	Quantity          int64     `json:"quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OnHandResponse reports the quantity on hand for one item at one location.
// Absent ledger records read as zero.
type OnHandResponse struct {
	StorageLocationID uuid.UUID `json:"storage_location_id"`
	ItemID            uuid.UUID `json:"item_id"`
	Quantity          int64     `json:"quantity"`
}

// ItemTotalResponse reports the organization-wide total for one item across
// all storage locations
type ItemTotalResponse struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// ToInventoryItemResponse converts a ledger record to a response DTO
func ToInventoryItemResponse(record *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                record.ID,
		OrganizationID:    record.OrganizationID,
		StorageLocationID: record.StorageLocationID,
		ItemID:            record.ItemID,
		Quantity:          record.Quantity,
		UpdatedAt:         record.UpdatedAt,
	}
}

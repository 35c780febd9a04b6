package purchase

import (
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchaseCreated           = "PurchaseCreated"
	EventTypePurchaseUpdated           = "PurchaseUpdated"
	EventTypePurchaseLineItemsReplaced = "PurchaseLineItemsReplaced"
	EventTypePurchaseDeleted           = "PurchaseDeleted"
)

// PurchaseCreatedEvent is published when a new purchase is recorded
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID        uuid.UUID `json:"purchase_id"`
	StorageLocationID uuid.UUID `json:"storage_location_id"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID, p.OrganizationID),
		PurchaseID:        p.ID,
		StorageLocationID: p.StorageLocationID,
	}
}

// PurchaseUpdatedEvent is published when a purchase's header fields change
type PurchaseUpdatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID `json:"purchase_id"`
}

// NewPurchaseUpdatedEvent creates a new PurchaseUpdatedEvent
func NewPurchaseUpdatedEvent(p *Purchase) *PurchaseUpdatedEvent {
	return &PurchaseUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseUpdated, AggregateTypePurchase, p.ID, p.OrganizationID),
		PurchaseID:      p.ID,
	}
}

// PurchaseLineItemsReplacedEvent is published when a purchase's line-item set
// is swapped for a new one. Old and new quantities let subscribers audit the
// inventory deltas the reconciliation applied.
type PurchaseLineItemsReplacedEvent struct {
	shared.BaseDomainEvent
	PurchaseID        uuid.UUID           `json:"purchase_id"`
	StorageLocationID uuid.UUID           `json:"storage_location_id"`
	OldQuantities     map[uuid.UUID]int64 `json:"old_quantities"`
	NewQuantities     map[uuid.UUID]int64 `json:"new_quantities"`
}

// NewPurchaseLineItemsReplacedEvent creates a new PurchaseLineItemsReplacedEvent
func NewPurchaseLineItemsReplacedEvent(p *Purchase, oldQuantities map[uuid.UUID]int64) *PurchaseLineItemsReplacedEvent {
	return &PurchaseLineItemsReplacedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseLineItemsReplaced, AggregateTypePurchase, p.ID, p.OrganizationID),
		PurchaseID:        p.ID,
		StorageLocationID: p.StorageLocationID,
		OldQuantities:     oldQuantities,
		NewQuantities:     p.QuantityByItem(),
	}
}

// PurchaseDeletedEvent is published when a purchase is removed
type PurchaseDeletedEvent struct {
	shared.BaseDomainEvent
	PurchaseID        uuid.UUID `json:"purchase_id"`
	StorageLocationID uuid.UUID `json:"storage_location_id"`
}

// NewPurchaseDeletedEvent creates a new PurchaseDeletedEvent
func NewPurchaseDeletedEvent(p *Purchase) *PurchaseDeletedEvent {
	return &PurchaseDeletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseDeleted, AggregateTypePurchase, p.ID, p.OrganizationID),
		PurchaseID:        p.ID,
		StorageLocationID: p.StorageLocationID,
	}
}

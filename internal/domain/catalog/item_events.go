package catalog

import (
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemCreated     = "ItemCreated"
	EventTypeItemReactivated = "ItemReactivated"
	EventTypeItemDeactivated = "ItemDeactivated"
)

// ItemCreatedEvent is published when a new catalog item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID, item.OrganizationID),
		ItemID:          item.ID,
		Name:            item.Name,
		Category:        item.Category,
	}
}

// ItemReactivatedEvent is published when an inactive item becomes active again
type ItemReactivatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
}

// NewItemReactivatedEvent creates a new ItemReactivatedEvent
func NewItemReactivatedEvent(item *Item) *ItemReactivatedEvent {
	return &ItemReactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemReactivated, AggregateTypeItem, item.ID, item.OrganizationID),
		ItemID:          item.ID,
		Name:            item.Name,
	}
}

// ItemDeactivatedEvent is published when an item is deactivated
type ItemDeactivatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
}

// NewItemDeactivatedEvent creates a new ItemDeactivatedEvent
func NewItemDeactivatedEvent(item *Item) *ItemDeactivatedEvent {
	return &ItemDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeactivated, AggregateTypeItem, item.ID, item.OrganizationID),
		ItemID:          item.ID,
		Name:            item.Name,
	}
}

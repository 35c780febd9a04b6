package catalog

import (
	"strings"
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemStatus represents the status of a catalog item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	return s == ItemStatusActive || s == ItemStatusInactive
}

// ReactivationPolicy controls what happens when stock arrives for an
// inactive catalog item.
type ReactivationPolicy string

const (
	// ReactivateOnRestock reactivates an inactive item when a purchase brings
	// in a positive quantity for it. This is a deliberate policy, not a side
	// effect: banks routinely retire an item and later start buying it again,
	// and the restock is treated as the signal to bring it back.
	ReactivateOnRestock ReactivationPolicy = "reactivate_on_restock"

	// KeepInactiveOnRestock leaves the item inactive; stock is still recorded.
	KeepInactiveOnRestock ReactivationPolicy = "keep_inactive_on_restock"
)

// Item represents an entry in an organization's item catalog (e.g. a diaper
// size or an incontinence product). Inventory and purchase line items refer
// to catalog items by ID.
type Item struct {
	shared.OrgAggregateRoot
	Name          string     `gorm:"type:varchar(200);not null"`
	Category      string     `gorm:"type:varchar(100)"`
	Status        ItemStatus `gorm:"type:varchar(20);not null;default:'active'"`
	DeactivatedAt *time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new active catalog item
func NewItem(organizationID uuid.UUID, name, category string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot exceed 200 characters")
	}

	item := &Item{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Category:         category,
		Status:           ItemStatusActive,
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// IsActive reports whether the item is active
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

// Activate marks the item active. Activating an already active item is a no-op.
func (i *Item) Activate() {
	if i.Status == ItemStatusActive {
		return
	}
	i.Status = ItemStatusActive
	i.DeactivatedAt = nil
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewItemReactivatedEvent(i))
}

// Deactivate marks the item inactive. Existing inventory and purchase history
// are untouched.
func (i *Item) Deactivate() {
	if i.Status == ItemStatusInactive {
		return
	}
	now := time.Now()
	i.Status = ItemStatusInactive
	i.DeactivatedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	i.AddDomainEvent(NewItemDeactivatedEvent(i))
}

// Rename changes the item name
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot exceed 200 characters")
	}
	i.Name = name
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

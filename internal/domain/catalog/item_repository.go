package catalog

import (
	"context"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository defines the interface for catalog item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForOrg finds an item by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Item, error)

	// FindByIDsForOrg finds multiple items by their IDs within an organization
	FindByIDsForOrg(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]Item, error)

	// FindAllForOrg finds all items for an organization
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForOrg counts items matching the filter
	CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
}

package purchase

import (
	"context"
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase by its ID, with line items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByIDForOrg finds a purchase by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Purchase, error)

	// FindAllForOrg finds all purchases for an organization
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Purchase, error)

	// FindByIssuedRange finds purchases whose effective date falls within the
	// inclusive [from, to] range, regardless of when the record was created
	FindByIssuedRange(ctx context.Context, organizationID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Purchase, error)

	// FindByStorageLocation finds purchases against a storage location
	FindByStorageLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID, filter shared.Filter) ([]Purchase, error)

	// Save creates or updates a purchase together with its line items
	Save(ctx context.Context, p *Purchase) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, p *Purchase) error

	// Delete deletes a purchase and its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForOrg counts purchases matching the filter
	CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
}

package partner

import (
	"context"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StorageLocationRepository defines the interface for storage location persistence
type StorageLocationRepository interface {
	// FindByID finds a storage location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StorageLocation, error)

	// FindByIDForOrg finds a storage location by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*StorageLocation, error)

	// FindAllForOrg finds all storage locations for an organization
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]StorageLocation, error)

	// ExistsForOrg checks whether a storage location exists within an organization
	ExistsForOrg(ctx context.Context, organizationID, id uuid.UUID) (bool, error)

	// Save creates or updates a storage location
	Save(ctx context.Context, location *StorageLocation) error

	// Delete deletes a storage location
	Delete(ctx context.Context, id uuid.UUID) error
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// FindByID finds a vendor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)

	// FindByIDForOrg finds a vendor by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Vendor, error)

	// FindAllForOrg finds all vendors for an organization
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// ExistsForOrg checks whether a vendor exists within an organization
	ExistsForOrg(ctx context.Context, organizationID, id uuid.UUID) (bool, error)

	// Save creates or updates a vendor
	Save(ctx context.Context, vendor *Vendor) error

	// Delete deletes a vendor
	Delete(ctx context.Context, id uuid.UUID) error
}

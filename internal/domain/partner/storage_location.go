package partner

import (
	"strings"
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StorageLocation represents a physical site where an organization keeps
// inventory (a warehouse, a closet, a truck). Purchases land stock at exactly
// one storage location.
type StorageLocation struct {
	shared.OrgAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StorageLocation) TableName() string {
	return "storage_locations"
}

// NewStorageLocation creates a new storage location
func NewStorageLocation(organizationID uuid.UUID, name, address string) (*StorageLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_NAME", "Storage location name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_LOCATION_NAME", "Storage location name cannot exceed 200 characters")
	}

	return &StorageLocation{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Address:          address,
	}, nil
}

// Rename changes the location name
func (l *StorageLocation) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_LOCATION_NAME", "Storage location name cannot be empty")
	}
	l.Name = name
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

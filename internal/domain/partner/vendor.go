package partner

import (
	"strings"
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Vendor represents a business an organization purchases from. A purchase may
// reference a vendor record, carry only a free-text source, or both.
type Vendor struct {
	shared.OrgAggregateRoot
	BusinessName string `gorm:"type:varchar(200);not null"`
	ContactName  string `gorm:"type:varchar(100)"`
	Email        string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor
func NewVendor(organizationID uuid.UUID, businessName string) (*Vendor, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor business name cannot be empty")
	}
	if len(businessName) > 200 {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor business name cannot exceed 200 characters")
	}

	return &Vendor{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		BusinessName:     businessName,
	}, nil
}

// UpdateContact updates the vendor contact details
func (v *Vendor) UpdateContact(contactName, email, phone string) {
	v.ContactName = contactName
	v.Email = email
	v.Phone = phone
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

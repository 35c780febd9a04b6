package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForOrg finds a purchase by ID within an organization
func (r *GormPurchaseRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForOrg finds all purchases for an organization
func (r *GormPurchaseRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Purchase{}).
			Preload("LineItems").
			Where("organization_id = ?", organizationID),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByIssuedRange finds purchases issued within [from, to], both bounds inclusive
func (r *GormPurchaseRepository) FindByIssuedRange(ctx context.Context, organizationID uuid.UUID, from, to time.Time, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Purchase{}).
			Preload("LineItems").
			Where("organization_id = ? AND issued_at >= ? AND issued_at <= ?", organizationID, from, to),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByStorageLocation finds purchases recorded against a storage location
func (r *GormPurchaseRepository) FindByStorageLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.Purchase{}).
			Preload("LineItems").
			Where("organization_id = ? AND storage_location_id = ?", organizationID, storageLocationID),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase together with its line items. The stored
// line-item set is replaced wholesale so that rows removed from the aggregate
// are removed from the table.
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LineItems").Save(p).Error; err != nil {
			return err
		}
		return r.replaceLineItemRows(tx, p)
	})
}

// SaveWithLock saves with optimistic locking. The aggregate's Version still
// holds the value it was loaded with (domain mutators do not advance it), so
// the update matches the stored row only if no concurrent writer committed
// since the load.
func (r *GormPurchaseRepository) SaveWithLock(ctx context.Context, p *purchase.Purchase) error {
	loadedVersion := p.Version
	p.IncrementVersion()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&purchase.Purchase{}).
			Where("id = ? AND version = ?", p.ID, loadedVersion).
			Updates(map[string]interface{}{
				"vendor_id":                p.VendorID,
				"purchased_from":           p.PurchasedFrom,
				"amount_spent_cents":       p.AmountSpentCents,
				"diapers_cents":            p.DiapersCents,
				"adult_incontinence_cents": p.AdultIncontinenceCents,
				"other_cents":              p.OtherCents,
				"issued_at":                p.IssuedAt,
				"comment":                  p.Comment,
				"version":                  p.Version,
				"updated_at":               p.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceLineItemRows(tx, p)
	})
}

// Delete deletes a purchase. Line items go with it via the cascade.
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&purchase.LineItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&purchase.Purchase{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForOrg counts purchases for an organization
func (r *GormPurchaseRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&purchase.Purchase{}).
			Where("organization_id = ?", organizationID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// replaceLineItemRows swaps the stored line-item rows for the aggregate's
// current set
func (r *GormPurchaseRepository) replaceLineItemRows(tx *gorm.DB, p *purchase.Purchase) error {
	if err := tx.Where("purchase_id = ?", p.ID).Delete(&purchase.LineItem{}).Error; err != nil {
		return err
	}
	if len(p.LineItems) == 0 {
		return nil
	}
	return tx.Create(&p.LineItems).Error
}

// applyFilter applies filter options to the query
func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "issued_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "storage_location_id":
			query = query.Where("storage_location_id = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "issued_from":
			query = query.Where("issued_at >= ?", value)
		case "issued_to":
			query = query.Where("issued_at <= ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ purchase.PurchaseRepository = (*GormPurchaseRepository)(nil)

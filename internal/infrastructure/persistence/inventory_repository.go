package persistence

import (
	"context"
	"errors"

	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory record by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var record inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocationAndItem finds the record for a location-item combination
func (r *GormInventoryItemRepository) FindByLocationAndItem(ctx context.Context, organizationID, storageLocationID, itemID uuid.UUID) (*inventory.InventoryItem, error) {
	var record inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND storage_location_id = ? AND item_id = ?", organizationID, storageLocationID, itemID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocation finds all inventory records at a storage location
func (r *GormInventoryItemRepository) FindByLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var records []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("organization_id = ? AND storage_location_id = ?", organizationID, storageLocationID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForOrg finds all inventory records for an organization
func (r *GormInventoryItemRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var records []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("organization_id = ?", organizationID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetOrCreate returns the record for a location-item combination, inserting an
// empty one when none exists. The insert uses ON CONFLICT DO NOTHING so that
// concurrent callers converge on the same row.
func (r *GormInventoryItemRepository) GetOrCreate(ctx context.Context, organizationID, storageLocationID, itemID uuid.UUID) (*inventory.InventoryItem, error) {
	record, err := r.FindByLocationAndItem(ctx, organizationID, storageLocationID, itemID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = inventory.NewInventoryItem(organizationID, storageLocationID, itemID)
	if err != nil {
		return nil, err
	}
	record.ClearDomainEvents()

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "storage_location_id"},
				{Name: "item_id"},
			},
			DoNothing: true,
		}).
		Create(record).Error; err != nil {
		return nil, err
	}

	// A concurrent insert may have won the conflict; re-read to get it.
	return r.FindByLocationAndItem(ctx, organizationID, storageLocationID, itemID)
}

// Save creates or updates an inventory record
func (r *GormInventoryItemRepository) Save(ctx context.Context, record *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete deletes an inventory record
func (r *GormInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByLocation counts inventory records at a storage location
func (r *GormInventoryItemRepository) CountByLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("organization_id = ? AND storage_location_id = ?", organizationID, storageLocationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByItem sums on-hand quantity for an item across all locations
func (r *GormInventoryItemRepository) SumQuantityByItem(ctx context.Context, organizationID, itemID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("organization_id = ? AND item_id = ?", organizationID, itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "storage_location_id":
			query = query.Where("storage_location_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryItemSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)

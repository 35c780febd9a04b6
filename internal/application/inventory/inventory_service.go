package inventory

import (
	"context"
	"errors"

	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/partner"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryService answers read queries against the inventory ledger.
// All mutation flows through purchase reconciliation, so this service
// never writes.
type InventoryService struct {
	inventoryRepo inventory.InventoryItemRepository
	locationRepo  partner.StorageLocationRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(inventoryRepo inventory.InventoryItemRepository, locationRepo partner.StorageLocationRepository) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		locationRepo:  locationRepo,
	}
}

// ListByLocation retrieves the ledger records held at one storage location
func (s *InventoryService) ListByLocation(ctx context.Context, organizationID, storageLocationID uuid.UUID, filter shared.Filter) ([]InventoryItemResponse, int64, error) {
	exists, err := s.locationRepo.ExistsForOrg(ctx, organizationID, storageLocationID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, shared.ErrMissingReference
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	records, err := s.inventoryRepo.FindByLocation(ctx, organizationID, storageLocationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.inventoryRepo.CountByLocation(ctx, organizationID, storageLocationID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InventoryItemResponse, 0, len(records))
	for idx := range records {
		responses = append(responses, ToInventoryItemResponse(&records[idx]))
	}
	return responses, total, nil
}

// GetOnHand reports the quantity on hand for one item at one location.
// A missing ledger record reads as zero, which is what the ledger's
// delete-at-zero lifecycle means.
func (s *InventoryService) GetOnHand(ctx context.Context, organizationID, storageLocationID, itemID uuid.UUID) (*OnHandResponse, error) {
	record, err := s.inventoryRepo.FindByLocationAndItem(ctx, organizationID, storageLocationID, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &OnHandResponse{
				StorageLocationID: storageLocationID,
				ItemID:            itemID,
				Quantity:          0,
			}, nil
		}
		return nil, err
	}

	return &OnHandResponse{
		StorageLocationID: record.StorageLocationID,
		ItemID:            record.ItemID,
		Quantity:          record.Quantity,
	}, nil
}

// GetItemTotal reports the organization-wide quantity for one item summed
// across all storage locations
func (s *InventoryService) GetItemTotal(ctx context.Context, organizationID, itemID uuid.UUID) (*ItemTotalResponse, error) {
	total, err := s.inventoryRepo.SumQuantityByItem(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemTotalResponse{ItemID: itemID, Quantity: total}, nil
}

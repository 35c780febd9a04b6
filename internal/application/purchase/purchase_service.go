package purchase

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/essentials/backend/internal/domain/catalog"
	"github.com/essentials/backend/internal/domain/inventory"
	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseService handles purchase business operations, including the
// inventory reconciliation that keeps storage-location stock in step with
// what each purchase says was bought.
type PurchaseService struct {
	purchaseRepo   purchase.PurchaseRepository
	txScope        TransactionScope
	reactivation   catalog.ReactivationPolicy
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo purchase.PurchaseRepository, txScope TransactionScope) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		txScope:      txScope,
		reactivation: catalog.ReactivateOnRestock,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetReactivationPolicy overrides the policy applied when stock arrives for
// an inactive catalog item
func (s *PurchaseService) SetReactivationPolicy(policy catalog.ReactivationPolicy) {
	s.reactivation = policy
}

// Create records a new purchase and lands its quantities at the storage
// location. The purchase commit pipeline runs in a fixed order: issued-date
// defaulting, line-item merge, category validation, then the ledger apply.
// Everything happens in one transaction.
func (s *PurchaseService) Create(ctx context.Context, organizationID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	var resp PurchaseResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := resolveHeaderReferences(ctx, repos, organizationID, req.StorageLocationID, req.VendorID); err != nil {
			return err
		}

		p, err := purchase.NewPurchase(organizationID, req.StorageLocationID)
		if err != nil {
			return err
		}
		p.SetVendor(req.VendorID)
		p.SetPurchasedFrom(req.PurchasedFrom)
		p.SetComment(req.Comment)
		if req.IssuedAt != nil {
			p.SetIssuedAt(*req.IssuedAt)
		}
		if err := p.SetAmounts(req.AmountSpentCents, req.DiapersCents, req.AdultIncontinenceCents, req.OtherCents); err != nil {
			return err
		}
		for _, li := range req.LineItems {
			if err := p.AddLineItem(li.ItemID, li.Quantity); err != nil {
				return err
			}
		}

		p.DefaultIssuedAt()
		p.Normalize()
		if err := p.Validate(); err != nil {
			return err
		}

		items, err := resolveItems(ctx, repos, organizationID, p.ItemIDs(), shared.ErrMissingReference)
		if err != nil {
			return err
		}
		reactivated, err := s.reactivateItems(ctx, repos, items)
		if err != nil {
			return err
		}

		if err := repos.Purchases().Save(ctx, p); err != nil {
			return err
		}

		deltaEvents, err := applyInventoryDeltas(ctx, repos.Inventory(), p, nil, p.QuantityByItem())
		if err != nil {
			return err
		}

		events = collectEvents(p)
		events = append(events, reactivated...)
		events = append(events, deltaEvents...)
		resp = ToPurchaseResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &resp, nil
}

// ReplaceLineItems swaps a purchase's full line-item set for the proposed
// one and reconciles the storage location's inventory against the change.
// For every item in the union of the old and new sets it computes
// delta = new - old and applies it to the (location, item) ledger record:
// increments create the record if needed, and a decrement landing at exactly
// zero retires it. Any failure rolls the whole call back - neither the
// line-item change nor any ledger mutation survives.
func (s *PurchaseService) ReplaceLineItems(ctx context.Context, organizationID, purchaseID uuid.UUID, req ReplaceLineItemsRequest) (*PurchaseResponse, error) {
	var resp PurchaseResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.Purchases().FindByIDForOrg(ctx, organizationID, purchaseID)
		if err != nil {
			return err
		}

		oldSet := p.QuantityByItem()

		if err := p.ReplaceLineItems(ToLineItemEntries(req.LineItems)); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}

		items, err := resolveItems(ctx, repos, organizationID, p.ItemIDs(), purchase.ErrInvalidLineItem)
		if err != nil {
			return err
		}
		reactivated, err := s.reactivateItems(ctx, repos, items)
		if err != nil {
			return err
		}

		if err := repos.Purchases().SaveWithLock(ctx, p); err != nil {
			return err
		}

		deltaEvents, err := applyInventoryDeltas(ctx, repos.Inventory(), p, oldSet, p.QuantityByItem())
		if err != nil {
			return err
		}

		events = collectEvents(p)
		events = append(events, reactivated...)
		events = append(events, deltaEvents...)
		resp = ToPurchaseResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &resp, nil
}

// RemoveLineItem removes one item from the purchase's own record of what was
// bought. Removing an absent item is a success no-op. The ledger is not
// touched here: inventory correction happens when the purchase is next
// reconciled via ReplaceLineItems.
func (s *PurchaseService) RemoveLineItem(ctx context.Context, organizationID, purchaseID, itemID uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByIDForOrg(ctx, organizationID, purchaseID)
	if err != nil {
		return nil, err
	}

	if p.RemoveLineItem(itemID) {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if err := s.purchaseRepo.Save(ctx, p); err != nil {
			return nil, err
		}
		s.publish(ctx, []shared.DomainEvent{purchase.NewPurchaseUpdatedEvent(p)})
	}

	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// Update changes a purchase's header fields. Line items and inventory are
// untouched.
func (s *PurchaseService) Update(ctx context.Context, organizationID, purchaseID uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	var resp PurchaseResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.Purchases().FindByIDForOrg(ctx, organizationID, purchaseID)
		if err != nil {
			return err
		}

		if req.VendorID != nil {
			if err := resolveHeaderReferences(ctx, repos, organizationID, p.StorageLocationID, req.VendorID); err != nil {
				return err
			}
			p.SetVendor(req.VendorID)
		}
		if req.PurchasedFrom != nil {
			p.SetPurchasedFrom(*req.PurchasedFrom)
		}
		if req.Comment != nil {
			p.SetComment(*req.Comment)
		}
		if req.IssuedAt != nil {
			p.SetIssuedAt(*req.IssuedAt)
		}

		amountSpent := p.AmountSpentCents
		diapers := p.DiapersCents
		adult := p.AdultIncontinenceCents
		other := p.OtherCents
		if req.AmountSpentCents != nil {
			amountSpent = req.AmountSpentCents
		}
		if req.DiapersCents != nil {
			diapers = *req.DiapersCents
		}
		if req.AdultIncontinenceCents != nil {
			adult = *req.AdultIncontinenceCents
		}
		if req.OtherCents != nil {
			other = *req.OtherCents
		}
		if err := p.SetAmounts(amountSpent, diapers, adult, other); err != nil {
			return err
		}

		if err := p.Validate(); err != nil {
			return err
		}
		if err := repos.Purchases().SaveWithLock(ctx, p); err != nil {
			return err
		}

		events = append(events, purchase.NewPurchaseUpdatedEvent(p))
		resp = ToPurchaseResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return &resp, nil
}

// Delete removes a purchase, reversing its remaining quantities out of the
// storage location's inventory through the same delta path reconciliation
// uses. Line items are destroyed with the purchase.
func (s *PurchaseService) Delete(ctx context.Context, organizationID, purchaseID uuid.UUID) error {
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.Purchases().FindByIDForOrg(ctx, organizationID, purchaseID)
		if err != nil {
			return err
		}

		deltaEvents, err := applyInventoryDeltas(ctx, repos.Inventory(), p, p.QuantityByItem(), nil)
		if err != nil {
			return err
		}

		if err := repos.Purchases().Delete(ctx, p.ID); err != nil {
			return err
		}

		events = append(events, purchase.NewPurchaseDeletedEvent(p))
		events = append(events, deltaEvents...)
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, organizationID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByIDForOrg(ctx, organizationID, purchaseID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// List retrieves purchases with filtering and pagination. When both issued
// bounds are present the range is inclusive on both ends.
func (s *PurchaseService) List(ctx context.Context, organizationID uuid.UUID, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "issued_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.StorageLocationID != nil {
		domainFilter.Filters["storage_location_id"] = *filter.StorageLocationID
	}
	if filter.VendorID != nil {
		domainFilter.Filters["vendor_id"] = *filter.VendorID
	}
	if filter.IssuedFrom != nil {
		domainFilter.Filters["issued_from"] = *filter.IssuedFrom
	}
	if filter.IssuedTo != nil {
		domainFilter.Filters["issued_to"] = *filter.IssuedTo
	}

	purchases, err := s.purchaseRepo.FindAllForOrg(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.CountForOrg(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, 0, len(purchases))
	for idx := range purchases {
		responses = append(responses, ToPurchaseResponse(&purchases[idx]))
	}
	return responses, total, nil
}

// ListByIssuedRange retrieves purchases whose issued date falls within
// [from, to], both bounds inclusive
func (s *PurchaseService) ListByIssuedRange(ctx context.Context, organizationID uuid.UUID, from, to time.Time, page, pageSize int) ([]PurchaseResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "issued_at",
		OrderDir: "asc",
	}
	purchases, err := s.purchaseRepo.FindByIssuedRange(ctx, organizationID, from, to, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseResponse, 0, len(purchases))
	for idx := range purchases {
		responses = append(responses, ToPurchaseResponse(&purchases[idx]))
	}
	return responses, nil
}

// resolveHeaderReferences checks that the storage location and, when given,
// the vendor resolve to existing records within the organization
func resolveHeaderReferences(ctx context.Context, repos TransactionalRepositories, organizationID, storageLocationID uuid.UUID, vendorID *uuid.UUID) error {
	exists, err := repos.Locations().ExistsForOrg(ctx, organizationID, storageLocationID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrMissingReference
	}

	if vendorID != nil {
		exists, err := repos.Vendors().ExistsForOrg(ctx, organizationID, *vendorID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrMissingReference
		}
	}

	return nil
}

// resolveItems loads the referenced catalog items and fails with missingErr
// when any reference does not resolve
func resolveItems(ctx context.Context, repos TransactionalRepositories, organizationID uuid.UUID, itemIDs []uuid.UUID, missingErr error) ([]catalog.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	items, err := repos.Items().FindByIDsForOrg(ctx, organizationID, itemIDs)
	if err != nil {
		return nil, err
	}
	if len(items) != len(itemIDs) {
		return nil, missingErr
	}
	return items, nil
}

// reactivateItems applies the reactivation policy to inactive items that are
// about to receive stock
func (s *PurchaseService) reactivateItems(ctx context.Context, repos TransactionalRepositories, items []catalog.Item) ([]shared.DomainEvent, error) {
	if s.reactivation != catalog.ReactivateOnRestock {
		return nil, nil
	}

	var events []shared.DomainEvent
	for idx := range items {
		if items[idx].IsActive() {
			continue
		}
		items[idx].Activate()
		if err := repos.Items().Save(ctx, &items[idx]); err != nil {
			return nil, err
		}
		events = append(events, collectEvents(&items[idx])...)
	}
	return events, nil
}

// applyInventoryDeltas computes new - old per item across the union of both
// sets and applies every non-zero delta to the purchase's storage location.
// Items are walked in a deterministic order so concurrent reconciliations
// acquire row locks consistently.
func applyInventoryDeltas(ctx context.Context, ledger inventory.InventoryItemRepository, p *purchase.Purchase, oldSet, newSet map[uuid.UUID]int64) ([]shared.DomainEvent, error) {
	var events []shared.DomainEvent

	for _, itemID := range sortedUnionKeys(oldSet, newSet) {
		delta := newSet[itemID] - oldSet[itemID]
		if delta == 0 {
			continue
		}

		if delta > 0 {
			record, err := ledger.GetOrCreate(ctx, p.OrganizationID, p.StorageLocationID, itemID)
			if err != nil {
				return nil, err
			}
			if err := record.Increase(delta); err != nil {
				return nil, err
			}
			if err := ledger.Save(ctx, record); err != nil {
				return nil, err
			}
			events = append(events, collectEvents(record)...)
			continue
		}

		record, err := ledger.FindByLocationAndItem(ctx, p.OrganizationID, p.StorageLocationID, itemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Nothing on hand to take the decrement out of.
				return nil, shared.ErrInventoryUnderflow
			}
			return nil, err
		}
		if err := record.Decrease(-delta); err != nil {
			return nil, err
		}
		if record.IsDepleted() {
			if err := ledger.Delete(ctx, record.ID); err != nil {
				return nil, err
			}
		} else if err := ledger.Save(ctx, record); err != nil {
			return nil, err
		}
		events = append(events, collectEvents(record)...)
	}

	return events, nil
}

// sortedUnionKeys returns the union of both key sets in a stable order
func sortedUnionKeys(oldSet, newSet map[uuid.UUID]int64) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(oldSet)+len(newSet))
	keys := make([]uuid.UUID, 0, len(oldSet)+len(newSet))
	for id := range oldSet {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
	}
	for id := range newSet {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			keys = append(keys, id)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// collectEvents drains pending domain events from an aggregate
func collectEvents(agg shared.AggregateRoot) []shared.DomainEvent {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	return events
}

// publish hands events to the publisher when one is configured. Delivery
// errors are the bus's concern, not the caller's.
func (s *PurchaseService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

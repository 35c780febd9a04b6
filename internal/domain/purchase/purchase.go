package purchase

import (
	"fmt"
	"time"

	"github.com/essentials/backend/internal/domain/shared"
	"github.com/essentials/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// LineItem is a (catalog item, quantity) pair owned by a purchase. Line items
// are composed into the purchase and destroyed with it, never shared.
type LineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "purchase_line_items"
}

func newLineItem(purchaseID, itemID uuid.UUID, quantity int64) LineItem {
	now := time.Now()
	return LineItem{
		ID:         uuid.New(),
		PurchaseID: purchaseID,
		ItemID:     itemID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// LineItemEntry is the typed input for composing or replacing a purchase's
// line items: one proposed (item, quantity) pair.
type LineItemEntry struct {
	ItemID   uuid.UUID
	Quantity int64
}

// NewCategoryMismatchError builds the validation error raised when itemized
// category subtotals do not add up to the declared total.
func NewCategoryMismatchError(categorySum, declaredTotal valueobject.Money) *shared.DomainError {
	return shared.NewDomainError("CATEGORY_MISMATCH",
		fmt.Sprintf("categories add to %s but given total is %s", categorySum, declaredTotal))
}

// ErrInvalidLineItem is raised for a malformed keep/add entry: a missing item
// reference or a negative quantity. A zero quantity is not malformed - it
// means "remove this item".
var ErrInvalidLineItem = shared.NewDomainError("INVALID_LINE_ITEM", "Line item has a missing item reference or negative quantity")

// Purchase records goods bought by an organization and landed at one storage
// location. It is the aggregate root for purchase operations: it owns its
// line items and carries the declared spend alongside per-category subtotals.
type Purchase struct {
	shared.OrgAggregateRoot
	StorageLocationID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID               *uuid.UUID `gorm:"type:uuid;index"`
	PurchasedFrom          string     `gorm:"type:varchar(200)"`
	AmountSpentCents       *int64     // Total as declared by the purchaser; nil when not declared
	DiapersCents           int64      `gorm:"not null;default:0"`
	AdultIncontinenceCents int64      `gorm:"not null;default:0"`
	OtherCents             int64      `gorm:"not null;default:0"`
	IssuedAt               time.Time  `gorm:"index"` // Effective date; defaulted to CreatedAt at first commit
	Comment                string     `gorm:"type:text"`
	LineItems              []LineItem `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new purchase for an organization against a storage location
func NewPurchase(organizationID, storageLocationID uuid.UUID) (*Purchase, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if storageLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORAGE_LOCATION", "Storage location ID cannot be empty")
	}

	p := &Purchase{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(organizationID),
		StorageLocationID: storageLocationID,
		LineItems:         make([]LineItem, 0),
	}

	p.AddDomainEvent(NewPurchaseCreatedEvent(p))

	return p, nil
}

// SetVendor sets the optional vendor reference
func (p *Purchase) SetVendor(vendorID *uuid.UUID) {
	p.VendorID = vendorID
	p.touch()
}

// SetPurchasedFrom sets the free-text source description
func (p *Purchase) SetPurchasedFrom(source string) {
	p.PurchasedFrom = source
	p.touch()
}

// SetComment sets the free-text comment
func (p *Purchase) SetComment(comment string) {
	p.Comment = comment
	p.touch()
}

// SetIssuedAt sets an explicit effective date. An explicit value is never
// overwritten by the defaulting rule, whatever its relation to CreatedAt.
func (p *Purchase) SetIssuedAt(issuedAt time.Time) {
	p.IssuedAt = issuedAt
	p.touch()
}

// SetAmounts sets the declared total and the per-category subtotals, all in
// cents. A nil declared total means the purchaser did not itemize spend.
func (p *Purchase) SetAmounts(amountSpentCents *int64, diapersCents, adultIncontinenceCents, otherCents int64) error {
	if amountSpentCents != nil && *amountSpentCents < 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount spent cannot be negative")
	}
	if diapersCents < 0 || adultIncontinenceCents < 0 || otherCents < 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Category subtotals cannot be negative")
	}

	p.AmountSpentCents = amountSpentCents
	p.DiapersCents = diapersCents
	p.AdultIncontinenceCents = adultIncontinenceCents
	p.OtherCents = otherCents
	p.touch()

	return nil
}

// AddLineItem adds quantity of an item to the purchase. Adding an item that
// is already present merges into the existing line item by summing quantities
// rather than failing: upstream composition (a multi-row form) legitimately
// produces duplicate rows, and a duplicate row means "more of this item".
func (p *Purchase) AddLineItem(itemID uuid.UUID, quantity int64) error {
	if itemID == uuid.Nil || quantity < 0 {
		return ErrInvalidLineItem
	}
	if quantity == 0 {
		return nil
	}

	for idx := range p.LineItems {
		if p.LineItems[idx].ItemID == itemID {
			p.LineItems[idx].Quantity += quantity
			p.LineItems[idx].UpdatedAt = time.Now()
			p.touch()
			return nil
		}
	}

	p.LineItems = append(p.LineItems, newLineItem(p.ID, itemID, quantity))
	p.touch()

	return nil
}

// RemoveLineItem removes the line item for itemID, if present, and reports
// whether anything was removed. Removing an absent item is a defined success
// path: the set is left untouched and no error is raised. Inventory is not
// corrected here - that happens when the purchase is next reconciled.
func (p *Purchase) RemoveLineItem(itemID uuid.UUID) bool {
	for idx := range p.LineItems {
		if p.LineItems[idx].ItemID == itemID {
			p.LineItems = append(p.LineItems[:idx], p.LineItems[idx+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

// ReplaceLineItems swaps the full line-item set for the proposed entries.
// A zero quantity or an omitted item means removal; a negative quantity or a
// missing item reference fails the whole call. Duplicate entries for the same
// item are merged by summing. Category validation runs against the resulting
// purchase before the replacement is accepted.
func (p *Purchase) ReplaceLineItems(entries []LineItemEntry) error {
	merged := make([]LineItem, 0, len(entries))
	index := make(map[uuid.UUID]int, len(entries))

	for _, entry := range entries {
		if entry.ItemID == uuid.Nil || entry.Quantity < 0 {
			return ErrInvalidLineItem
		}
		if entry.Quantity == 0 {
			continue
		}
		if at, ok := index[entry.ItemID]; ok {
			merged[at].Quantity += entry.Quantity
			continue
		}
		index[entry.ItemID] = len(merged)
		merged = append(merged, newLineItem(p.ID, entry.ItemID, entry.Quantity))
	}

	if err := p.validateCategoryTotals(); err != nil {
		return err
	}

	old := p.QuantityByItem()
	p.LineItems = merged
	p.touch()
	p.AddDomainEvent(NewPurchaseLineItemsReplacedEvent(p, old))

	return nil
}

// QuantityByItem returns the purchase's line items as an item -> quantity
// mapping. Keys are unique by the merge invariant.
func (p *Purchase) QuantityByItem() map[uuid.UUID]int64 {
	quantities := make(map[uuid.UUID]int64, len(p.LineItems))
	for _, li := range p.LineItems {
		quantities[li.ItemID] += li.Quantity
	}
	return quantities
}

// ItemIDs returns the distinct item references across the line items
func (p *Purchase) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.LineItems))
	seen := make(map[uuid.UUID]struct{}, len(p.LineItems))
	for _, li := range p.LineItems {
		if _, ok := seen[li.ItemID]; ok {
			continue
		}
		seen[li.ItemID] = struct{}{}
		ids = append(ids, li.ItemID)
	}
	return ids
}

// DefaultIssuedAt applies the issued-date defaulting rule: an unset effective
// date becomes the record's creation timestamp. Runs once before the first
// save; an explicitly supplied value is left alone.
func (p *Purchase) DefaultIssuedAt() {
	if p.IssuedAt.IsZero() {
		p.IssuedAt = p.CreatedAt
	}
}

// Normalize collapses duplicate line items for the same item into one line
// item with the summed quantity, preserving first-occurrence order. It is
// idempotent: normalizing an already merged set changes nothing.
func (p *Purchase) Normalize() {
	if len(p.LineItems) < 2 {
		return
	}

	merged := make([]LineItem, 0, len(p.LineItems))
	index := make(map[uuid.UUID]int, len(p.LineItems))
	changed := false

	for _, li := range p.LineItems {
		if at, ok := index[li.ItemID]; ok {
			merged[at].Quantity += li.Quantity
			merged[at].UpdatedAt = time.Now()
			changed = true
			continue
		}
		index[li.ItemID] = len(merged)
		merged = append(merged, li)
	}

	if changed {
		p.LineItems = merged
		p.touch()
	}
}

// Validate checks the purchase invariants after normalization: line items
// are well formed and unique per item, and category subtotals reconcile with
// the declared total.
func (p *Purchase) Validate() error {
	seen := make(map[uuid.UUID]struct{}, len(p.LineItems))
	for _, li := range p.LineItems {
		if li.ItemID == uuid.Nil || li.Quantity <= 0 {
			return ErrInvalidLineItem
		}
		if _, ok := seen[li.ItemID]; ok {
			return ErrInvalidLineItem
		}
		seen[li.ItemID] = struct{}{}
	}

	return p.validateCategoryTotals()
}

// validateCategoryTotals enforces the cost-category invariant: when a total
// is declared and any category subtotal is non-zero, the three subtotals must
// sum exactly to the total. Purchasers who do not itemize may leave all
// categories at zero.
func (p *Purchase) validateCategoryTotals() error {
	if p.AmountSpentCents == nil {
		return nil
	}

	sum := p.DiapersCents + p.AdultIncontinenceCents + p.OtherCents
	if sum == 0 {
		return nil
	}
	if sum == *p.AmountSpentCents {
		return nil
	}

	return NewCategoryMismatchError(valueobject.MustMoney(sum), valueobject.MustMoney(*p.AmountSpentCents))
}

// AmountSpent returns the declared total as Money, and whether one was declared
func (p *Purchase) AmountSpent() (valueobject.Money, bool) {
	if p.AmountSpentCents == nil {
		return valueobject.Zero(), false
	}
	return valueobject.MustMoney(*p.AmountSpentCents), true
}

// TotalQuantity returns the summed quantity across all line items
func (p *Purchase) TotalQuantity() int64 {
	var total int64
	for _, li := range p.LineItems {
		total += li.Quantity
	}
	return total
}

// touch refreshes UpdatedAt. Version is not advanced here: any number of
// mutations between a load and a save form one optimistic-lock cycle, and the
// repository bumps Version exactly once when it persists the aggregate.
func (p *Purchase) touch() {
	p.UpdatedAt = time.Now()
}

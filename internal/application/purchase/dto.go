package purchase

import (
	"time"

	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/google/uuid"
)

// LineItemEntryRequest is one proposed (item, quantity) pair
type LineItemEntryRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// CreatePurchaseRequest represents a request to record a new purchase
type CreatePurchaseRequest struct {
	StorageLocationID      uuid.UUID              `json:"storage_location_id"`
	VendorID               *uuid.UUID             `json:"vendor_id,omitempty"`
	PurchasedFrom          string                 `json:"purchased_from,omitempty"`
	AmountSpentCents       *int64                 `json:"amount_spent_cents,omitempty"`
	DiapersCents           int64                  `json:"diapers_money_cents"`
	AdultIncontinenceCents int64                  `json:"adult_incontinence_money_cents"`
	OtherCents             int64                  `json:"other_money_cents"`
	IssuedAt               *time.Time             `json:"issued_at,omitempty"`
	Comment                string                 `json:"comment,omitempty"`
	LineItems              []LineItemEntryRequest `json:"line_items"`
}

// UpdatePurchaseRequest represents a request to update a purchase's header
// fields. Line items are replaced through ReplaceLineItems, not here.
type UpdatePurchaseRequest struct {
	VendorID               *uuid.UUID `json:"vendor_id,omitempty"`
	PurchasedFrom          *string    `json:"purchased_from,omitempty"`
	AmountSpentCents       *int64     `json:"amount_spent_cents,omitempty"`
	DiapersCents           *int64     `json:"diapers_money_cents,omitempty"`
	AdultIncontinenceCents *int64     `json:"adult_incontinence_money_cents,omitempty"`
	OtherCents             *int64     `json:"other_money_cents,omitempty"`
	IssuedAt               *time.Time `json:"issued_at,omitempty"`
	Comment                *string    `json:"comment,omitempty"`
}

// ReplaceLineItemsRequest is the full proposed replacement set for a
// purchase's line items
type ReplaceLineItemsRequest struct {
	LineItems []LineItemEntryRequest `json:"line_items"`
}

// PurchaseListFilter holds list filtering options
type PurchaseListFilter struct {
	Page              int
	PageSize          int
	OrderBy           string
	OrderDir          string
	StorageLocationID *uuid.UUID
	VendorID          *uuid.UUID
	IssuedFrom        *time.Time
	IssuedTo          *time.Time
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID                     uuid.UUID          `json:"id"`
	OrganizationID         uuid.UUID          `json:"organization_id"`
	StorageLocationID      uuid.UUID          `json:"storage_location_id"`
	VendorID               *uuid.UUID         `json:"vendor_id,omitempty"`
	PurchasedFrom          string             `json:"purchased_from,omitempty"`
	AmountSpentCents       *int64             `json:"amount_spent_cents,omitempty"`
	AmountSpent            string             `json:"amount_spent,omitempty"`
	DiapersCents           int64              `json:"diapers_money_cents"`
	AdultIncontinenceCents int64              `json:"adult_incontinence_money_cents"`
	OtherCents             int64              `json:"other_money_cents"`
	IssuedAt               time.Time          `json:"issued_at"`
	Comment                string             `json:"comment,omitempty"`
	TotalQuantity          int64              `json:"total_quantity"`
	LineItems              []LineItemResponse `json:"line_items"`
	Version                int                `json:"version"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// ToPurchaseResponse converts a Purchase aggregate to a response DTO
func ToPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	lineItems := make([]LineItemResponse, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		lineItems = append(lineItems, LineItemResponse{
			ID:       li.ID,
			ItemID:   li.ItemID,
			Quantity: li.Quantity,
		})
	}

	resp := PurchaseResponse{
		ID:                     p.ID,
		OrganizationID:         p.OrganizationID,
		StorageLocationID:      p.StorageLocationID,
		VendorID:               p.VendorID,
		PurchasedFrom:          p.PurchasedFrom,
		AmountSpentCents:       p.AmountSpentCents,
		DiapersCents:           p.DiapersCents,
		AdultIncontinenceCents: p.AdultIncontinenceCents,
		OtherCents:             p.OtherCents,
		IssuedAt:               p.IssuedAt,
		Comment:                p.Comment,
		TotalQuantity:          p.TotalQuantity(),
		LineItems:              lineItems,
		Version:                p.GetVersion(),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}

	if amount, ok := p.AmountSpent(); ok {
		resp.AmountSpent = amount.String()
	}

	return resp
}

// ToLineItemEntries converts request pairs to domain entries
func ToLineItemEntries(reqs []LineItemEntryRequest) []purchase.LineItemEntry {
	entries := make([]purchase.LineItemEntry, 0, len(reqs))
	for _, r := range reqs {
		entries = append(entries, purchase.LineItemEntry{ItemID: r.ItemID, Quantity: r.Quantity})
	}
	return entries
}

package handler

import (
	"time"

	apppurchase "github.com/essentials/backend/internal/application/purchase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase-related API endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *apppurchase.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *apppurchase.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// LineItemEntryRequest represents one (item, quantity) pair in a purchase
// @Description One proposed line item pair
type LineItemEntryRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required" format:"uuid"`
	Quantity int64     `json:"quantity" example:"24"`
}

// CreatePurchaseRequest represents a request to record a new purchase
// @Description Request body for recording a new purchase
type CreatePurchaseRequest struct {
	StorageLocationID      uuid.UUID              `json:"storage_location_id" binding:"required" format:"uuid"`
	VendorID               *uuid.UUID             `json:"vendor_id" format:"uuid"`
	PurchasedFrom          string                 `json:"purchased_from" binding:"max=255" example:"Corner Store"`
	AmountSpentCents       *int64                 `json:"amount_spent_cents" example:"450"`
	DiapersCents           int64                  `json:"diapers_money_cents" example:"200"`
	AdultIncontinenceCents int64                  `json:"adult_incontinence_money_cents" example:"150"`
	OtherCents             int64                  `json:"other_money_cents" example:"100"`
	IssuedAt               *time.Time             `json:"issued_at"`
	Comment                string                 `json:"comment" example:"Monthly diaper drive purchase"`
	LineItems              []LineItemEntryRequest `json:"line_items"`
}

// UpdatePurchaseRequest represents a request to update a purchase's header fields
// @Description Request body for updating a purchase; line items are replaced
// @Description through the line items endpoint, not here
type UpdatePurchaseRequest struct {
	VendorID               *uuid.UUID `json:"vendor_id" format:"uuid"`
	PurchasedFrom          *string    `json:"purchased_from" binding:"omitempty,max=255"`
	AmountSpentCents       *int64     `json:"amount_spent_cents"`
	DiapersCents           *int64     `json:"diapers_money_cents"`
	AdultIncontinenceCents *int64     `json:"adult_incontinence_money_cents"`
	OtherCents             *int64     `json:"other_money_cents"`
	IssuedAt               *time.Time `json:"issued_at"`
	Comment                *string    `json:"comment"`
}

// ReplaceLineItemsRequest represents the full replacement set of line items
// @Description Request body for replacing a purchase's line items atomically
type ReplaceLineItemsRequest struct {
	LineItems []LineItemEntryRequest `json:"line_items"`
}

// PurchaseListQuery holds query parameters for listing purchases
type PurchaseListQuery struct {
	Page              int    `form:"page" binding:"omitempty,min=1"`
	PageSize          int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy           string `form:"order_by"`
	OrderDir          string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	StorageLocationID string `form:"storage_location_id" binding:"omitempty,uuid"`
	VendorID          string `form:"vendor_id" binding:"omitempty,uuid"`
	IssuedFrom        string `form:"issued_from"`
	IssuedTo          string `form:"issued_to"`
}

func toLineItemEntries(reqs []LineItemEntryRequest) []apppurchase.LineItemEntryRequest {
	entries := make([]apppurchase.LineItemEntryRequest, 0, len(reqs))
	for _, r := range reqs {
		entries = append(entries, apppurchase.LineItemEntryRequest{
			ItemID:   r.ItemID,
			Quantity: r.Quantity,
		})
	}
	return entries
}

// Create godoc
// @ID           createPurchase
//
//	@Summary		Record a new purchase
//	@Description	Record a purchase with its line items and apply the quantities to inventory
//	@Tags			purchases
//	@Accept			json
//	@Produce		json
//	@Param			X-Organization-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			request				body		CreatePurchaseRequest	true	"Purchase creation request"
//	@Success		201					{object}	APIResponse[apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := apppurchase.CreatePurchaseRequest{
		StorageLocationID:      req.StorageLocationID,
		VendorID:               req.VendorID,
		PurchasedFrom:          req.PurchasedFrom,
		AmountSpentCents:       req.AmountSpentCents,
		DiapersCents:           req.DiapersCents,
		AdultIncontinenceCents: req.AdultIncontinenceCents,
		OtherCents:             req.OtherCents,
		IssuedAt:               req.IssuedAt,
		Comment:                req.Comment,
		LineItems:              toLineItemEntries(req.LineItems),
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), orgID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, purchase)
}

// GetByID godoc
// @ID           getPurchaseById
//
//	@Summary		Get purchase by ID
//	@Description	Retrieve a purchase with its line items
//	@Tags			purchases
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Purchase ID"	format(uuid)
//	@Success		200					{object}	APIResponse[apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), orgID, purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// List godoc
// @ID           listPurchases
//
//	@Summary		List purchases
//	@Description	List purchases with pagination and optional filters
//	@Tags			purchases
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			page				query		int		false	"Page number"		default(1)
//	@Param			page_size			query		int		false	"Items per page"	default(20)
//	@Param			order_by			query		string	false	"Sort field"
//	@Param			order_dir			query		string	false	"Sort direction"	Enums(asc, desc)
//	@Param			storage_location_id	query		string	false	"Filter by storage location"	format(uuid)
//	@Param			vendor_id			query		string	false	"Filter by vendor"				format(uuid)
//	@Param			issued_from			query		string	false	"Issued date lower bound (RFC 3339)"
//	@Param			issued_to			query		string	false	"Issued date upper bound (RFC 3339)"
//	@Success		200					{object}	APIResponse[[]apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var query PurchaseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := toPurchaseListFilter(query)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchases, total, err := h.purchaseService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// ListByIssuedRange godoc
// @ID           listPurchasesByIssuedRange
//
//	@Summary		List purchases by issued date range
//	@Description	List purchases whose issued date falls within the inclusive range
//	@Tags			purchases
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			from				query		string	true	"Range start (RFC 3339)"
//	@Param			to					query		string	true	"Range end (RFC 3339)"
//	@Param			page				query		int		false	"Page number"		default(1)
//	@Param			page_size			query		int		false	"Items per page"	default(20)
//	@Success		200					{object}	APIResponse[[]apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/issued [get]
func (h *PurchaseHandler) ListByIssuedRange(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing from parameter")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing to parameter")
		return
	}

	var paging PurchaseListQuery
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if paging.Page <= 0 {
		paging.Page = 1
	}
	if paging.PageSize <= 0 {
		paging.PageSize = 20
	}

	purchases, err := h.purchaseService.ListByIssuedRange(c.Request.Context(), orgID, from, to, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchases)
}

// Update godoc
// @ID           updatePurchase
//
//	@Summary		Update a purchase
//	@Description	Update a purchase's header fields
//	@Tags			purchases
//	@Accept			json
//	@Produce		json
//	@Param			X-Organization-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id					path		string					true	"Purchase ID"	format(uuid)
//	@Param			request				body		UpdatePurchaseRequest	true	"Purchase update request"
//	@Success		200					{object}	APIResponse[apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		409					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/{id} [patch]
func (h *PurchaseHandler) Update(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := apppurchase.UpdatePurchaseRequest{
		VendorID:               req.VendorID,
		PurchasedFrom:          req.PurchasedFrom,
		AmountSpentCents:       req.AmountSpentCents,
		DiapersCents:           req.DiapersCents,
		AdultIncontinenceCents: req.AdultIncontinenceCents,
		OtherCents:             req.OtherCents,
		IssuedAt:               req.IssuedAt,
		Comment:                req.Comment,
	}

	purchase, err := h.purchaseService.Update(c.Request.Context(), orgID, purchaseID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// ReplaceLineItems godoc
// @ID           replacePurchaseLineItems
//
//	@Summary		Replace a purchase's line items
//	@Description	Replace the full line item set and reconcile inventory with the quantity deltas in one transaction
//	@Tags			purchases
//	@Accept			json
//	@Produce		json
//	@Param			X-Organization-ID	header		string					false	"Organization ID (optional for dev)"
//	@Param			id					path		string					true	"Purchase ID"	format(uuid)
//	@Param			request				body		ReplaceLineItemsRequest	true	"Replacement line item set"
//	@Success		200					{object}	APIResponse[apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		409					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/{id}/line-items [put]
func (h *PurchaseHandler) ReplaceLineItems(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	var req ReplaceLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := apppurchase.ReplaceLineItemsRequest{
		LineItems: toLineItemEntries(req.LineItems),
	}

	purchase, err := h.purchaseService.ReplaceLineItems(c.Request.Context(), orgID, purchaseID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// RemoveLineItem godoc
// @ID           removePurchaseLineItem
//
//	@Summary		Remove a line item from a purchase
//	@Description	Remove the line item for the given item without touching inventory; removing an absent item is a no-op
//	@Tags			purchases
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Purchase ID"	format(uuid)
//	@Param			item_id				path		string	true	"Item ID"		format(uuid)
//	@Success		200					{object}	APIResponse[apppurchase.PurchaseResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		409					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/{id}/line-items/{item_id} [delete]
func (h *PurchaseHandler) RemoveLineItem(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	purchase, err := h.purchaseService.RemoveLineItem(c.Request.Context(), orgID, purchaseID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Delete godoc
// @ID           deletePurchase
//
//	@Summary		Delete a purchase
//	@Description	Delete a purchase and roll its quantities back out of inventory
//	@Tags			purchases
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Purchase ID"	format(uuid)
//	@Success		204					"No Content"
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		422					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase ID format")
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), orgID, purchaseID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.Create)
		purchases.GET("", h.List)
		purchases.GET("/issued", h.ListByIssuedRange)
		purchases.GET("/:id", h.GetByID)
		purchases.PATCH("/:id", h.Update)
		purchases.DELETE("/:id", h.Delete)
		purchases.PUT("/:id/line-items", h.ReplaceLineItems)
		purchases.DELETE("/:id/line-items/:item_id", h.RemoveLineItem)
	}
}

// toPurchaseListFilter converts bound query parameters into the application
// filter, parsing the optional UUID and timestamp fields
func toPurchaseListFilter(query PurchaseListQuery) (apppurchase.PurchaseListFilter, error) {
	filter := apppurchase.PurchaseListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	if query.StorageLocationID != "" {
		id, err := uuid.Parse(query.StorageLocationID)
		if err != nil {
			return filter, err
		}
		filter.StorageLocationID = &id
	}
	if query.VendorID != "" {
		id, err := uuid.Parse(query.VendorID)
		if err != nil {
			return filter, err
		}
		filter.VendorID = &id
	}
	if query.IssuedFrom != "" {
		from, err := time.Parse(time.RFC3339, query.IssuedFrom)
		if err != nil {
			return filter, err
		}
		filter.IssuedFrom = &from
	}
	if query.IssuedTo != "" {
		to, err := time.Parse(time.RFC3339, query.IssuedTo)
		if err != nil {
			return filter, err
		}
		filter.IssuedTo = &to
	}

	return filter, nil
}

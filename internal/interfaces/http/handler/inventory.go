package handler

import (
	appinventory "github.com/essentials/backend/internal/application/inventory"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/essentials/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles inventory query endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// ListByLocation godoc
// @ID           listInventoryByLocation
//
//	@Summary		List inventory at a storage location
//	@Description	List the inventory ledger records for one storage location
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Storage location ID"	format(uuid)
//	@Param			page				query		int		false	"Page number"		default(1)
//	@Param			page_size			query		int		false	"Items per page"	default(20)
//	@Param			order_by			query		string	false	"Sort field"
//	@Param			order_dir			query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success		200					{object}	APIResponse[[]appinventory.InventoryItemResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/storage-locations/{id}/inventory [get]
func (h *InventoryHandler) ListByLocation(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid storage location ID format")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}
	if listReq.OrderBy != "" {
		filter.OrderBy = listReq.OrderBy
	}
	if listReq.OrderDir != "" {
		filter.OrderDir = listReq.OrderDir
	}

	records, total, err := h.inventoryService.ListByLocation(c.Request.Context(), orgID, locationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// GetOnHand godoc
// @ID           getOnHandQuantity
//
//	@Summary		Get on-hand quantity
//	@Description	Report the on-hand quantity for one item at one storage location; absent records read as zero
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Storage location ID"	format(uuid)
//	@Param			item_id				path		string	true	"Item ID"				format(uuid)
//	@Success		200					{object}	APIResponse[appinventory.OnHandResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/storage-locations/{id}/inventory/{item_id} [get]
func (h *InventoryHandler) GetOnHand(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid storage location ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	onHand, err := h.inventoryService.GetOnHand(c.Request.Context(), orgID, locationID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, onHand)
}

// GetItemTotal godoc
// @ID           getItemTotal
//
//	@Summary		Get organization-wide item total
//	@Description	Report the total on-hand quantity for one item across all storage locations
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Organization-ID	header		string	false	"Organization ID (optional for dev)"
//	@Param			id					path		string	true	"Item ID"	format(uuid)
//	@Success		200					{object}	APIResponse[appinventory.ItemTotalResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/items/{id}/on-hand [get]
func (h *InventoryHandler) GetItemTotal(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	total, err := h.inventoryService.GetItemTotal(c.Request.Context(), orgID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, total)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/storage-locations")
	{
		locations.GET("/:id/inventory", h.ListByLocation)
		locations.GET("/:id/inventory/:item_id", h.GetOnHand)
	}

	items := rg.Group("/items")
	{
		items.GET("/:id/on-hand", h.GetItemTotal)
	}
}

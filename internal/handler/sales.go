package handler

import (
	"net/http"

	"salesapi/internal/apierror"
	"salesapi/internal/dto"
	"salesapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Create a sale
// @Description  Creates a sale with optional initial items. Quantity discounts are applied per line and totals are computed server-side.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale details"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Description  Returns a paginated list of sales with equality filters and ordering.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string false "Filter by customer UUID"
// @Param        branch_id   query string false "Filter by branch UUID"
// @Param        number      query string false "Filter by sale number"
// @Param        order       query string false "number | -number | createdAt | -createdAt (default)"
// @Param        page        query int    false "Page (default 1)"
// @Param        size        query int    false "Records per page (default 20)"
// @Success      200 {object} dto.SaleListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid filter parameters"))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add an item to a sale
// @Description  Merges into an existing active line for the product (unit price must match) or appends a new line.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Sale UUID"
// @Param        body body dto.AddItemRequest true "Item details"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id}/items [post]
func (h *SalesHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItemQuantity godoc
// @Summary      Update an item's quantity
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string                        true "Sale UUID"
// @Param        productId path string                        true "Product UUID"
// @Param        body      body dto.UpdateItemQuantityRequest true "New quantity"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id}/items/{productId} [patch]
func (h *SalesHandler) UpdateItemQuantity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	var req dto.UpdateItemQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItemQuantity(c.Request.Context(), id, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Remove units from an item
// @Description  Decreases an active line's quantity. At least one unit must remain; use cancel-items to zero out lines.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string                true "Sale UUID"
// @Param        productId path string                true "Product UUID"
// @Param        body      body dto.RemoveItemRequest true "Units to remove"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id}/items/{productId} [delete]
func (h *SalesHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	var req dto.RemoveItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), id, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelItems godoc
// @Summary      Cancel all active items
// @Description  Cancels every active line; totals drop to zero. The sale itself stays open.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id}/cancel-items [post]
func (h *SalesHandler) CancelItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CancelItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel a sale
// @Description  Terminal transition. All lines must already be cancelled; every later mutation is rejected.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id}/cancel [post]
func (h *SalesHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CancelSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Soft-delete a sale
// @Tags         sales
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID parses a UUID path parameter and writes a 400 response on failure.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
	"github.com/iliyamo/repair-shop/internal/service"
)

// InventoryService manages stock records.
type InventoryService interface {
	List(ctx context.Context, companyID string, f repository.ItemFilter) ([]model.InventoryItem, error)
	Get(ctx context.Context, companyID, id string) (model.InventoryItem, error)
	Create(ctx context.Context, companyID, locationID string, in service.CreateItemInput) (model.InventoryItem, error)
	Update(ctx context.Context, companyID, id string, in service.UpdateItemInput) (model.InventoryItem, error)
}

// Inventory serves /api/inventory.
type Inventory struct {
	svc InventoryService
}

// NewInventory wires the inventory endpoints to svc.
func NewInventory(svc InventoryService) *Inventory { return &Inventory{svc: svc} }

// List handles GET /api/inventory.  It narrows to the location context when
// one is set; lowStock=true keeps items below their reorder level.
func (h *Inventory) List(c echo.Context) error {
	f := repository.ItemFilter{LocationID: middleware.LocationID(c)}
	if raw := c.QueryParam("lowStock"); raw != "" {
		v, err := strconv.ParseBool(raw) // accepts 1/0 and true/false
		if err != nil {
			return apperr.Validation("Invalid query", map[string]string{"lowStock": "must be true or false"})
		}
		f.LowStock = v
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/inventory/:id.
func (h *Inventory) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	it, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, it)
}

// Create handles POST /api/inventory.  The item lands at the request
// location unless the body names one.
func (h *Inventory) Create(c echo.Context) error {
	var in service.CreateItemInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	it, err := h.svc.Create(ctx, middleware.CompanyID(c), middleware.LocationID(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, it)
}

// Update handles PUT /api/inventory/:id.  The SKU and location of an item
// never change.
func (h *Inventory) Update(c echo.Context) error {
	var in service.UpdateItemInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	it, err := h.svc.Update(ctx, middleware.CompanyID(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, it)
}

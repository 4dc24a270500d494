package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/repository"
	"github.com/iliyamo/repair-shop/internal/service"
)

// TransferService runs the transfer workflow.
type TransferService interface {
	List(ctx context.Context, companyID string, f repository.TransferFilter) ([]model.InventoryTransfer, error)
	Get(ctx context.Context, companyID, id string) (model.InventoryTransfer, error)
	Create(ctx context.Context, companyID, userID, locationID string, in service.CreateTransferInput) (model.InventoryTransfer, error)
	Complete(ctx context.Context, companyID, id string) (model.InventoryTransfer, error)
	Cancel(ctx context.Context, companyID, id string) (model.InventoryTransfer, error)
}

// Transfer serves /api/inventory-transfers.
type Transfer struct {
	svc TransferService
}

// NewTransfer wires the transfer endpoints to svc.
func NewTransfer(svc TransferService) *Transfer { return &Transfer{svc: svc} }

// List handles GET /api/inventory-transfers, filtered by status,
// fromLocation and toLocation.
func (h *Transfer) List(c echo.Context) error {
	f := repository.TransferFilter{
		Status:         model.TransferStatus(c.QueryParam("status")),
		FromLocationID: c.QueryParam("fromLocation"),
		ToLocationID:   c.QueryParam("toLocation"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return apperr.Validation("Invalid query", map[string]string{"status": "must be pending, completed or cancelled"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/inventory-transfers/:id.
func (h *Transfer) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Create records a pending transfer.  The source location defaults to the
// location context of the request.
func (h *Transfer) Create(c echo.Context) error {
	var in service.CreateTransferInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Create(ctx, middleware.CompanyID(c), middleware.UserID(c), middleware.LocationID(c), in) // the caller is recorded as requester
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

// Complete handles POST /api/inventory-transfers/:id/complete.  Stock
// moves here; a closed transfer is a 409.
func (h *Transfer) Complete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Complete(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Cancel handles POST /api/inventory-transfers/:id/cancel.
func (h *Transfer) Cancel(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Cancel(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

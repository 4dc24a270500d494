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

// InvoiceService issues and settles invoices.
type InvoiceService interface {
	List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]model.Invoice, error)
	Get(ctx context.Context, companyID, id string) (model.Invoice, error)
	Create(ctx context.Context, companyID, locationID string, in service.CreateInvoiceInput) (model.Invoice, error)
	MarkPaid(ctx context.Context, companyID, id string) (model.Invoice, error)
}

// Invoice serves /api/invoices.
type Invoice struct {
	svc InvoiceService
}

// NewInvoice wires the invoice endpoints to svc.
func NewInvoice(svc InvoiceService) *Invoice { return &Invoice{svc: svc} }

// List handles GET /api/invoices, filtered by status, customerId and the
// location context.
func (h *Invoice) List(c echo.Context) error {
	f := repository.InvoiceFilter{
		Status:     model.InvoiceStatus(c.QueryParam("status")),
		CustomerID: c.QueryParam("customerId"),
		LocationID: middleware.LocationID(c),
	}
	if f.Status != "" && !f.Status.Valid() { // same rule as the ticket list
		return apperr.Validation("Invalid query", map[string]string{"status": "must be draft, issued, paid or cancelled"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/invoices/:id.
func (h *Invoice) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	inv, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, inv)
}

// Create handles POST /api/invoices.  The invoice number is assigned by the
// store.
func (h *Invoice) Create(c echo.Context) error {
	var in service.CreateInvoiceInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	inv, err := h.svc.Create(ctx, middleware.CompanyID(c), middleware.LocationID(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, inv)
}

// Pay handles POST /api/invoices/:id/pay.  Only draft and issued invoices
// can be paid.
func (h *Invoice) Pay(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	inv, err := h.svc.MarkPaid(ctx, middleware.CompanyID(c), c.Param("id")) // paid date is stamped by the service
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, inv)
}

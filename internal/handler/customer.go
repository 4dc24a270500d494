package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/service"
)

// CustomerService manages the company's customers.
type CustomerService interface {
	List(ctx context.Context, companyID, search string) ([]model.Customer, error)
	Get(ctx context.Context, companyID, id string) (model.Customer, error)
	Create(ctx context.Context, companyID string, in service.CreateCustomerInput) (model.Customer, error)
	Update(ctx context.Context, companyID, id string, in service.UpdateCustomerInput) (model.Customer, error)
	Delete(ctx context.Context, companyID, id string) error
}

// Customer serves /api/customers.
type Customer struct {
	svc CustomerService
}

// NewCustomer wires the customer endpoints to svc.
func NewCustomer(svc CustomerService) *Customer { return &Customer{svc: svc} }

// List handles GET /api/customers.  The q parameter searches first name,
// last name and email.
func (h *Customer) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), c.QueryParam("q")) // empty q lists everyone
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/customers/:id.
func (h *Customer) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	cu, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cu)
}

// Create handles POST /api/customers.  Emails are unique per company.
func (h *Customer) Create(c echo.Context) error {
	var in service.CreateCustomerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	cu, err := h.svc.Create(ctx, middleware.CompanyID(c), in) // a taken email comes back as 409
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cu)
}

// Update handles PUT /api/customers/:id; absent fields keep their value.
func (h *Customer) Update(c echo.Context) error {
	var in service.UpdateCustomerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	cu, err := h.svc.Update(ctx, middleware.CompanyID(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cu)
}

// Delete handles DELETE /api/customers/:id as a soft delete.
func (h *Customer) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	id := c.Param("id")
	if err := h.svc.Delete(ctx, middleware.CompanyID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, deleted{ID: id, Deleted: true})
}

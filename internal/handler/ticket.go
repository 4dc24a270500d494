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

// TicketService is the ticket workflow the handlers drive.
type TicketService interface {
	List(ctx context.Context, companyID string, f repository.TicketFilter) ([]model.TicketView, error)
	Get(ctx context.Context, companyID, id string) (model.TicketView, error)
	Create(ctx context.Context, companyID, locationID string, in service.CreateTicketInput) (model.TicketView, error)
	Update(ctx context.Context, companyID, id string, in service.UpdateTicketInput) (model.TicketView, error)
	Delete(ctx context.Context, companyID, id string) error
}

// Ticket serves /api/tickets.
type Ticket struct {
	svc TicketService
}

// NewTicket wires the ticket endpoints to svc.
func NewTicket(svc TicketService) *Ticket { return &Ticket{svc: svc} }

// List handles GET /api/tickets.  It filters by customerId and status; a
// location context narrows the list to that location.
func (h *Ticket) List(c echo.Context) error {
	f := repository.TicketFilter{
		CustomerID: c.QueryParam("customerId"),
		Status:     model.TicketStatus(c.QueryParam("status")),
		LocationID: middleware.LocationID(c), // empty when no location context was sent
	}
	if f.Status != "" && !f.Status.Valid() { // an unknown status is a 400, not an empty list
		return apperr.Validation("Invalid query", map[string]string{"status": "unknown ticket status"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c), f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/tickets/:id and returns the ticket with its customer
// and technician.
func (h *Ticket) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Get(ctx, middleware.CompanyID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Create handles POST /api/tickets.  The request location becomes the
// ticket location unless the body names one.
func (h *Ticket) Create(c echo.Context) error {
	var in service.CreateTicketInput
	if err := bind(c, &in); err != nil { // decode and validate the body
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Create(ctx, middleware.CompanyID(c), middleware.LocationID(c), in) // numbering happens in the store
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

// Update handles PUT /api/tickets/:id as a partial update.
func (h *Ticket) Update(c echo.Context) error {
	var in service.UpdateTicketInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.svc.Update(ctx, middleware.CompanyID(c), c.Param("id"), in) // status rules live in the service
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Delete handles DELETE /api/tickets/:id.  A second delete is a 404.
func (h *Ticket) Delete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	id := c.Param("id")
	if err := h.svc.Delete(ctx, middleware.CompanyID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, deleted{ID: id, Deleted: true})
}

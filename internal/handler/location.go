package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/service"
)

// LocationService lists and creates locations.
type LocationService interface {
	List(ctx context.Context, companyID string) ([]model.Location, error)
	Create(ctx context.Context, companyID string, in service.CreateLocationInput) (model.Location, error)
}

// Location serves /api/locations.
type Location struct {
	svc LocationService
}

// NewLocation wires the location endpoints to svc.
func NewLocation(svc LocationService) *Location { return &Location{svc: svc} }

// List handles GET /api/locations.
func (h *Location) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.List(ctx, middleware.CompanyID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Create handles POST /api/locations.
func (h *Location) Create(c echo.Context) error {
	var in service.CreateLocationInput
	if err := bind(c, &in); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	l, err := h.svc.Create(ctx, middleware.CompanyID(c), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, l)
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/middleware"
	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/service"
)

// ReportingService computes the read-side figures.
type ReportingService interface {
	DashboardStats(ctx context.Context, companyID string, q service.DashboardQuery) (model.DashboardStats, error)
	RevenueOverTime(ctx context.Context, companyID string, q service.RevenueQuery) ([]model.RevenuePoint, error)
}

// Reporting serves /api/reporting.  Both routes run with a location
// context.
type Reporting struct {
	svc ReportingService
}

// NewReporting wires the reporting endpoints to svc.
func NewReporting(svc ReportingService) *Reporting { return &Reporting{svc: svc} }

// DashboardStats handles GET /api/reporting/dashboard-stats.
func (h *Reporting) DashboardStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	st, err := h.svc.DashboardStats(ctx, middleware.CompanyID(c), service.DashboardQuery{
		LocationID: middleware.LocationID(c),
		StartDate:  c.QueryParam("startDate"), // dates are parsed by the service
		EndDate:    c.QueryParam("endDate"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, st)
}

// RevenueOverTime handles GET /api/reporting/revenue-over-time.  startDate
// and endDate are required; groupBy defaults to day.
func (h *Reporting) RevenueOverTime(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.svc.RevenueOverTime(ctx, middleware.CompanyID(c), service.RevenueQuery{
		LocationID: middleware.LocationID(c),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		GroupBy:    c.QueryParam("groupBy"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

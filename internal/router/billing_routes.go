package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/authz"
)

// registerBilling mounts invoices and reporting.  Reports are always cut
// for one location.
func registerBilling(api *echo.Group, h Handlers, located echo.MiddlewareFunc) {
	api.GET("/invoices", h.Invoice.List, can(authz.InvoicesRead))
	api.POST("/invoices", h.Invoice.Create, can(authz.InvoicesWrite))
	api.GET("/invoices/:id", h.Invoice.Get, can(authz.InvoicesRead))
	api.POST("/invoices/:id/pay", h.Invoice.Pay, can(authz.InvoicesWrite))

	api.GET("/reporting/dashboard-stats", h.Reporting.DashboardStats, located, can(authz.ReportsDashboard))
	api.GET("/reporting/revenue-over-time", h.Reporting.RevenueOverTime, located, can(authz.ReportsRevenue))
}

// Package router wires handlers to paths and places the authorization
// gates in front of them.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/authz"
	"github.com/iliyamo/repair-shop/internal/handler"
	"github.com/iliyamo/repair-shop/internal/middleware"
)

// Handlers groups every endpoint handler of the API.
type Handlers struct {
	Health    *handler.Health
	Auth      *handler.Auth
	Ticket    *handler.Ticket
	Customer  *handler.Customer
	User      *handler.User
	Location  *handler.Location
	Inventory *handler.Inventory
	Transfer  *handler.Transfer
	Invoice   *handler.Invoice
	Reporting *handler.Reporting
}

// Gates holds what the authorization chain needs to resolve a request.
// The limiters are optional.  RateLimit runs inside /api after
// authentication so per-user keys see the caller; AuthRateLimit guards the
// open /api/auth routes, where only the client address is known.
type Gates struct {
	Tokens        middleware.TokenVerifier
	Locations     middleware.LocationLookup
	RateLimit     echo.MiddlewareFunc
	AuthRateLimit echo.MiddlewareFunc
}

// passThrough stands in for a limiter that was not configured.
func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return passThrough
	}
	return m
}

// RegisterRoutes registers the routes that bypass authentication: the
// health check and, when metrics is non-nil, the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.Health, metrics echo.HandlerFunc) {
	e.GET("/healthz", h.Check)
	if metrics != nil {
		e.GET("/metrics", metrics)
	}
}

// RegisterAuth registers /api/auth.  Register, login and refresh are open;
// /me needs an access token.
func RegisterAuth(e *echo.Echo, a *handler.Auth, gates Gates) {
	g := e.Group("/api/auth", orPass(gates.AuthRateLimit))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.GET("/me", a.Me, middleware.Authenticate(gates.Tokens))
}

// RegisterAPI registers the tenant scoped resources under /api.  Every
// route runs authentication, the rate limiter, the tenant gate, then
// optional location resolution.  Routes that act on a location demand one;
// the role gate is attached per route.
func RegisterAPI(e *echo.Echo, h Handlers, gates Gates) {
	api := e.Group("/api",
		middleware.Authenticate(gates.Tokens),
		orPass(gates.RateLimit),
		middleware.RequireCompany(),
		middleware.ResolveLocation(gates.Locations, false),
	)
	located := middleware.ResolveLocation(gates.Locations, true)

	registerOperations(api, h)
	registerStock(api, h, located)
	registerBilling(api, h, located)
}

// Register installs every route of the service.
func Register(e *echo.Echo, h Handlers, gates Gates, metrics echo.HandlerFunc) {
	RegisterRoutes(e, h.Health, metrics)
	RegisterAuth(e, h.Auth, gates)
	RegisterAPI(e, h, gates)
}

// can is the per-route role gate.
func can(a authz.Action) echo.MiddlewareFunc { return middleware.Require(a) }

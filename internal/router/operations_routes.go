package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/authz"
)

// registerOperations covers the day to day shop floor: tickets, customers,
// staff and locations.
func registerOperations(api *echo.Group, h Handlers) {
	api.GET("/tickets", h.Ticket.List, can(authz.TicketsRead))
	api.POST("/tickets", h.Ticket.Create, can(authz.TicketsWrite))
	api.GET("/tickets/:id", h.Ticket.Get, can(authz.TicketsRead))
	api.PUT("/tickets/:id", h.Ticket.Update, can(authz.TicketsWrite))
	api.DELETE("/tickets/:id", h.Ticket.Delete, can(authz.TicketsDelete))

	api.GET("/customers", h.Customer.List, can(authz.CustomersRead))
	api.POST("/customers", h.Customer.Create, can(authz.CustomersWrite))
	api.GET("/customers/:id", h.Customer.Get, can(authz.CustomersRead))
	api.PUT("/customers/:id", h.Customer.Update, can(authz.CustomersWrite))
	api.DELETE("/customers/:id", h.Customer.Delete, can(authz.CustomersWrite))

	// technicians is registered before :id so it is not taken for an id
	api.GET("/users", h.User.List, can(authz.UsersRead))
	api.GET("/users/technicians", h.User.Technicians, can(authz.UsersRead))
	api.POST("/users", h.User.Create, can(authz.UsersManage))
	api.GET("/users/:id", h.User.Get, can(authz.UsersRead))
	api.PUT("/users/:id/role", h.User.UpdateRole, can(authz.UsersManage))
	api.POST("/users/:id/deactivate", h.User.Deactivate, can(authz.UsersManage))

	api.GET("/locations", h.Location.List, can(authz.LocationsRead))
	api.POST("/locations", h.Location.Create, can(authz.LocationsManage))
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/authz"
)

// registerStock mounts inventory and transfers.  Creating a transfer needs
// the location the stock leaves from.
func registerStock(api *echo.Group, h Handlers, located echo.MiddlewareFunc) {
	api.GET("/inventory", h.Inventory.List, can(authz.InventoryRead))
	api.POST("/inventory", h.Inventory.Create, can(authz.InventoryWrite))
	api.GET("/inventory/:id", h.Inventory.Get, can(authz.InventoryRead))
	api.PUT("/inventory/:id", h.Inventory.Update, can(authz.InventoryWrite))

	t := api.Group("/inventory-transfers")
	t.GET("", h.Transfer.List, can(authz.TransfersRead))
	t.POST("", h.Transfer.Create, located, can(authz.TransfersCreate))
	t.GET("/:id", h.Transfer.Get, can(authz.TransfersRead))
	t.POST("/:id/complete", h.Transfer.Complete, can(authz.TransfersComplete))
	t.POST("/:id/cancel", h.Transfer.Cancel, can(authz.TransfersCancel))
}

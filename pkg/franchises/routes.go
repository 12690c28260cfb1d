package franchises

import (
	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/orders"
	"github.com/uptrace/bun"
)

func newHandler(db *bun.DB) *handler {
	return &handler{
		franchiseService: NewService(db),
		itemService:      items.NewService(db),
		orderService:     orders.NewService(db),
	}
}

// RegisterRoutes registers the public catalog browsing endpoints.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := newHandler(db)

	e.GET("/franchises", h.list)
	e.GET("/franchises/:id", h.retrieve)
	e.GET("/franchises/:id/items", h.listItems)
	e.GET("/franchises/:id/orders", h.listOrders)
	e.GET("/franchises/:id/orders/:order_type", h.retrieveOrder)
	e.GET("/categories/:category/franchises", h.listByCategory)
	e.GET("/popular", h.popular)
}

// RegisterAdminRoutes registers franchise curation endpoints on the admin
// group.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := newHandler(db)

	g.POST("/franchises", h.create)
	g.PUT("/franchises/:id", h.update)
	g.POST("/franchises/:id/items", h.createItem)
	g.POST("/franchises/:id/orders", h.createOrder)
}

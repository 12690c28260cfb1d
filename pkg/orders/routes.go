package orders

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterAdminRoutes registers the order curation endpoints on the admin
// group.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		orderService: NewService(db),
	}

	g.POST("/orders/:id/items", h.addItem)
}

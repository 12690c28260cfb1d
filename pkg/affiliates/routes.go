package affiliates

import (
	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/items"
	"github.com/uptrace/bun"
)

func newHandler(db *bun.DB) *handler {
	return &handler{
		linkService: NewService(db),
		itemService: items.NewService(db),
	}
}

// RegisterRoutes registers the public affiliate link endpoints.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := newHandler(db)

	e.GET("/items/:id/affiliate-links", h.list)
	e.POST("/items/:id/affiliate-links", h.create)
	e.POST("/affiliate-links/:id/click", h.click)
}

// RegisterAdminRoutes registers affiliate link management endpoints on the
// admin group.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := newHandler(db)

	g.POST("/items/:id/affiliate-links", h.create)
	g.PUT("/affiliate-links/:id", h.update)
	g.DELETE("/affiliate-links/:id", h.deleteLink)
	g.POST("/affiliate-links/generate-amazon", h.generateAmazon)
	g.POST("/affiliate-links/bulk-create", h.bulkCreate)
	g.GET("/affiliate-stats", h.stats)
}

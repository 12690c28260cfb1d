package syncruns

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterAdminRoutes registers the sync history endpoints on the admin group.
func RegisterAdminRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		syncRunService: NewService(db),
	}

	g.GET("/sync/runs", h.list)
	g.GET("/sync/runs/:id", h.retrieve)
}

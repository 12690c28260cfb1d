package search

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the catalog-wide search endpoint.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		searchService: NewService(db),
	}

	e.GET("/search", h.search)
}

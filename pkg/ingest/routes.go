package ingest

import (
	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/models"
)

// RegisterAdminRoutes registers the sync endpoints on the admin group.
func RegisterAdminRoutes(g *echo.Group, pipeline *Pipeline) {
	h := &handler{pipeline}

	g.POST("/sync/tmdb/movies", h.syncHandler(models.SyncProviderTMDBMovies))
	g.POST("/sync/tmdb/tv", h.syncHandler(models.SyncProviderTMDBTV))
	g.POST("/sync/rawg/games", h.syncHandler(models.SyncProviderRAWGGames))
	g.POST("/sync/popular", h.syncPopular)
	g.GET("/sync/status", h.status)
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/orderof/catalog/pkg/affiliates"
	"github.com/orderof/catalog/pkg/binder"
	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/franchises"
	"github.com/orderof/catalog/pkg/ingest"
	"github.com/orderof/catalog/pkg/orders"
	"github.com/orderof/catalog/pkg/search"
	"github.com/orderof/catalog/pkg/syncruns"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, pipeline *ingest.Pipeline) (*http.Server, error) {
	e, err := newEcho(db, pipeline)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(db *bun.DB, pipeline *ingest.Pipeline) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Public catalog
	franchises.RegisterRoutes(e, db)
	search.RegisterRoutes(e, db)
	affiliates.RegisterRoutes(e, db)

	// Curation and sync
	admin := e.Group("/admin")
	franchises.RegisterAdminRoutes(admin, db)
	orders.RegisterAdminRoutes(admin, db)
	affiliates.RegisterAdminRoutes(admin, db)
	ingest.RegisterAdminRoutes(admin, pipeline)
	syncruns.RegisterAdminRoutes(admin, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}

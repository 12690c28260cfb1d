package ingest

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
)

var providerNames = map[string]string{
	models.SyncProviderTMDBMovies: "TMDb",
	models.SyncProviderTMDBTV:     "TMDb",
	models.SyncProviderRAWGGames:  "RAWG",
}

type handler struct {
	pipeline *Pipeline
}

func (h *handler) syncHandler(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		params := SyncPayload{}
		if err := c.Bind(&params); err != nil {
			return errors.WithStack(err)
		}

		franchise, err := h.pipeline.ResolveFranchise(ctx, provider, params.FranchiseID, params.FranchiseName)
		if err != nil {
			return errors.WithStack(err)
		}

		run, err := h.pipeline.Sync(ctx, provider, franchise.ID, params.FranchiseName)
		if err != nil {
			return errors.WithStack(err)
		}

		return errors.WithStack(c.JSON(http.StatusOK, SyncResponse{
			Message:   fmt.Sprintf("Successfully synced %s from %s", params.FranchiseName, providerNames[provider]),
			Franchise: franchise,
			SyncRun:   run,
		}))
	}
}

func (h *handler) syncPopular(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.pipeline.SyncPopular(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, PopularResponse{
		Message:       fmt.Sprintf("Successfully synced %d popular franchises", result.Synced),
		PopularResult: result,
	}))
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.pipeline.Status(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, status))
}

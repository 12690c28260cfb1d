package syncruns

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	syncRunService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSyncRunsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	runs, total, err := h.syncRunService.ListSyncRunsWithTotal(ctx, ListSyncRunsOptions{
		Limit:       &params.Limit,
		Offset:      &params.Offset,
		FranchiseID: params.FranchiseID,
		Statuses:    params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		SyncRuns interface{} `json:"sync_runs"`
		Total    int         `json:"total"`
	}{runs, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.syncRunService.RetrieveSyncRun(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, run))
}

package syncruns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/binder"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	db := testutils.NewDB(t)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	svc := NewService(db)
	run := &models.SyncRun{FranchiseID: franchise.ID, Provider: models.SyncProviderRAWGGames, Query: "Halo", Status: models.SyncStatusCompleted}
	require.NoError(t, svc.CreateSyncRun(context.Background(), run))

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterAdminRoutes(e.Group("/admin"), db)

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}

	rr := get("/admin/sync/runs?status=completed&limit=5")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list struct {
		SyncRuns []models.SyncRun `json:"sync_runs"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.SyncRuns, 1)
	assert.Equal(t, run.ID, list.SyncRuns[0].ID)

	rr = get("/admin/sync/runs?status=pending")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get("/admin/sync/runs?limit=500")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get("/admin/sync/runs/" + run.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var retrieved models.SyncRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &retrieved))
	assert.Equal(t, "Halo", retrieved.Query)
	require.NotNil(t, retrieved.Franchise)
	assert.Equal(t, franchise.ID, retrieved.Franchise.ID)

	rr = get("/admin/sync/runs/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

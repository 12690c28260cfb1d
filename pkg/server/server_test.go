package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/ingest"
	"github.com/orderof/catalog/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	db := testutils.NewDB(t)
	cfg := config.NewForTest()
	cfg.ServerPort = 5050

	srv, err := New(cfg, db, ingest.New(db, ingest.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5050", srv.Addr)
}

func TestRoutes(t *testing.T) {
	db := testutils.NewDB(t)
	e, err := newEcho(db, ingest.New(db, ingest.Options{}))
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/franchises", http.StatusOK},
		{http.MethodGet, "/popular", http.StatusOK},
		{http.MethodGet, "/search?q=saga", http.StatusOK},
		{http.MethodGet, "/admin/sync/status", http.StatusOK},
		{http.MethodGet, "/admin/sync/runs", http.StatusOK},
		{http.MethodGet, "/admin/affiliate-stats", http.StatusOK},
		{http.MethodGet, "/franchises/missing", http.StatusNotFound},
		{http.MethodGet, "/items/missing/affiliate-links", http.StatusNotFound},
		{http.MethodGet, "/does/not/exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			e.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			if tt.status == http.StatusNotFound {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, "not_found", body["code"])
			}
		})
	}
}

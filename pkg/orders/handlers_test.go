package orders

import (
	"net/http"
	"net/http/httptest"
	"strings"
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

func newOrdersTestContext(t *testing.T, payload, orderID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+orderID+"/items", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)
	c.SetPath("/admin/orders/:id/items")
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	return c, rr
}

func TestHandlerAddItem(t *testing.T) {
	db := testutils.NewDB(t)
	h := &handler{orderService: NewService(db)}
	franchise := testutils.CreateFranchise(t, db, "Rocky", models.CategoryMovies, 0)
	order := testutils.CreateOrder(t, db, franchise.ID, models.OrderTypeRelease)
	item := testutils.CreateItem(t, db, franchise.ID, "Rocky II", "1979-06-15")

	c, rr := newOrdersTestContext(t, `{"item_id":"`+item.ID+`","position":1,"is_optional":true}`, order.ID)
	require.NoError(t, h.addItem(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, item.ID, body["item_id"])
	assert.InDelta(t, 1, body["position"], 0)
	assert.Equal(t, true, body["is_optional"])
}

func TestHandlerAddItem_Validation(t *testing.T) {
	db := testutils.NewDB(t)
	h := &handler{orderService: NewService(db)}
	franchise := testutils.CreateFranchise(t, db, "Rocky", models.CategoryMovies, 0)
	order := testutils.CreateOrder(t, db, franchise.ID, models.OrderTypeRelease)

	c, _ := newOrdersTestContext(t, `{"position":0}`, order.ID)
	err := h.addItem(c)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusBadRequest, codeErr.HTTPCode)
}

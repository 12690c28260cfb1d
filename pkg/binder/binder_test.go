package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type createParams struct {
	Name     string `json:"name" mod:"trim" validate:"required"`
	Category string `json:"category" validate:"required,oneof=movies series games"`
	Website  string `json:"website" validate:"omitempty,http_url"`
}

type listParams struct {
	Category string `query:"category"`
	Limit    int    `query:"limit" default:"20" validate:"min=1,max=100"`
	Offset   int    `query:"offset" validate:"min=0"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("validation errors are bad requests", func(tt *testing.T) {
		c := newContext(`{"name":"   ","category":"movies"}`, echo.MIMEApplicationJSON)
		p := createParams{}
		err := b.Bind(&p, c)
		var codeErr *errcodes.Error
		require.ErrorAs(tt, err, &codeErr)
		assert.Equal(tt, http.StatusBadRequest, codeErr.HTTPCode)
		assert.Equal(tt, `"name" is required`, codeErr.Message)
	})

	t.Run("rejects non-http urls", func(tt *testing.T) {
		c := newContext(`{"name":"Alien","category":"movies","website":"ftp://example.com"}`, echo.MIMEApplicationJSON)
		p := createParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"website" must be an http or https URL`)
	})

	t.Run("rejects empty bodies on writes", func(tt *testing.T) {
		c := newContext("", echo.MIMEApplicationJSON)
		p := createParams{}
		err := b.Bind(&p, c)
		assert.Equal(tt, errcodes.EmptyRequestBody(), err)
	})

	t.Run("binds query params with defaults", func(tt *testing.T) {
		c := newQueryContext("/franchises?category=movies")
		p := listParams{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "movies", p.Category)
		assert.Equal(tt, 20, p.Limit)
	})

	t.Run("names the query param in validation errors", func(tt *testing.T) {
		c := newQueryContext("/franchises?limit=500")
		p := listParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" must be less than or equal to 100`)
	})

	t.Run("rejects unknown query params", func(tt *testing.T) {
		c := newQueryContext("/franchises?colour=red")
		p := listParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "colour"`)
	})

	t.Run("reports query type errors", func(tt *testing.T) {
		c := newQueryContext("/franchises?limit=lots")
		p := listParams{}
		err := b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newQueryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

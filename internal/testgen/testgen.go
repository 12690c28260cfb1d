// Package testgen serves fake TMDB and RAWG APIs for tests that exercise the
// real provider clients end to end.
package testgen

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 20

// Server is a running fake provider API.
type Server struct {
	*httptest.Server
	requests atomic.Int64
}

// Requests returns how many requests the server has handled.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

func newServer(t *testing.T, apiKeyParam, apiKey string, register func(e *echo.Echo)) *Server {
	t.Helper()

	s := &Server{}
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s.requests.Add(1)
			if apiKey != "" && c.QueryParam(apiKeyParam) != apiKey {
				return c.JSON(http.StatusUnauthorized, map[string]string{"status_message": "Invalid API key"})
			}
			return next(c)
		}
	})
	register(e)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

// matches reports whether title contains query, ignoring case.
func matches(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// paginate returns the requested page of items and the total page count.
func paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = defaultPageSize
	}
	total := (len(items) + size - 1) / size
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, total
	}
	end := min(start+size, len(items))
	return items[start:end], total
}

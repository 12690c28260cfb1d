package testgen

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
)

type Game struct {
	ID        int64
	Name      string
	Released  string
	Rating    float64
	Platforms []string
	// DescriptionHTML is returned as the description; description_raw is
	// left empty.
	DescriptionHTML string
}

type RAWGOptions struct {
	APIKey   string
	Games    []Game
	PageSize int
}

func (g Game) payload() map[string]interface{} {
	platforms := make([]map[string]interface{}, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		platforms = append(platforms, map[string]interface{}{"platform": map[string]string{"name": p}})
	}
	return map[string]interface{}{
		"id":               g.ID,
		"name":             g.Name,
		"released":         g.Released,
		"background_image": "https://media.rawg.io/" + g.Name + ".jpg",
		"description":      g.DescriptionHTML,
		"rating":           g.Rating,
		"rating_top":       5,
		"ratings_count":    10,
		"metacritic":       nil,
		"platforms":        platforms,
		"genres":           []map[string]string{{"name": "Shooter"}},
	}
}

// NewRAWGServer serves the games search endpoint from opts. Searches match
// names containing the query and page through results with next links.
func NewRAWGServer(t *testing.T, opts RAWGOptions) *Server {
	t.Helper()

	var s *Server
	s = newServer(t, "key", opts.APIKey, func(e *echo.Echo) {
		e.GET("/games", func(c echo.Context) error {
			results := []map[string]interface{}{}
			for _, g := range opts.Games {
				if matches(g.Name, c.QueryParam("search")) {
					results = append(results, g.payload())
				}
			}

			page := pageParam(c)
			items, total := paginate(results, page, opts.PageSize)
			var next interface{}
			if page < total {
				q := c.QueryParams()
				q.Set("page", strconv.Itoa(page+1))
				next = s.URL + "/games?" + q.Encode()
			}
			return c.JSON(http.StatusOK, map[string]interface{}{
				"count":    len(results),
				"next":     next,
				"previous": nil,
				"results":  items,
			})
		})
	})
	return s
}

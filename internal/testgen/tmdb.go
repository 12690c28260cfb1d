package testgen

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
)

type Movie struct {
	ID          int64
	Title       string
	ReleaseDate string
	PosterPath  string
	Overview    string
	VoteAverage float64
	// CollectionID of zero means the movie doesn't belong to a collection.
	CollectionID int64
}

type Show struct {
	ID           int64
	Name         string
	FirstAirDate string
	Seasons      int
	Episodes     int
}

type TMDBOptions struct {
	APIKey   string
	Movies   []Movie
	Shows    []Show
	PageSize int
}

func (m Movie) payload(details bool) map[string]interface{} {
	p := map[string]interface{}{
		"id":                m.ID,
		"title":             m.Title,
		"release_date":      m.ReleaseDate,
		"poster_path":       m.PosterPath,
		"overview":          m.Overview,
		"vote_average":      m.VoteAverage,
		"vote_count":        100,
		"original_language": "en",
		"adult":             false,
	}
	if details {
		p["genres"] = []map[string]interface{}{{"id": 28, "name": "Action"}}
		if m.CollectionID != 0 {
			p["belongs_to_collection"] = map[string]interface{}{"id": m.CollectionID, "name": "Collection " + strconv.FormatInt(m.CollectionID, 10)}
		} else {
			p["belongs_to_collection"] = nil
		}
	} else {
		p["genre_ids"] = []int{28}
	}
	return p
}

func (s Show) payload(details bool) map[string]interface{} {
	p := map[string]interface{}{
		"id":                s.ID,
		"name":              s.Name,
		"first_air_date":    s.FirstAirDate,
		"overview":          "",
		"vote_average":      8.0,
		"vote_count":        100,
		"original_language": "en",
	}
	if details {
		p["number_of_seasons"] = s.Seasons
		p["number_of_episodes"] = s.Episodes
		p["status"] = "Ended"
	}
	return p
}

// NewTMDBServer serves search/movie, movie/:id, collection/:id, search/tv and
// tv/:id from opts. Searches match titles containing the query.
func NewTMDBServer(t *testing.T, opts TMDBOptions) *Server {
	t.Helper()

	return newServer(t, "api_key", opts.APIKey, func(e *echo.Echo) {
		e.GET("/search/movie", func(c echo.Context) error {
			results := []map[string]interface{}{}
			for _, m := range opts.Movies {
				if matches(m.Title, c.QueryParam("query")) {
					results = append(results, m.payload(false))
				}
			}
			return searchPage(c, results, opts.PageSize)
		})

		e.GET("/movie/:id", func(c echo.Context) error {
			for _, m := range opts.Movies {
				if strconv.FormatInt(m.ID, 10) == c.Param("id") {
					return c.JSON(http.StatusOK, m.payload(true))
				}
			}
			return notFound(c)
		})

		e.GET("/collection/:id", func(c echo.Context) error {
			id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
			parts := []map[string]interface{}{}
			for _, m := range opts.Movies {
				if m.CollectionID != 0 && m.CollectionID == id {
					parts = append(parts, m.payload(false))
				}
			}
			if len(parts) == 0 {
				return notFound(c)
			}
			return c.JSON(http.StatusOK, map[string]interface{}{"id": id, "name": "Collection", "parts": parts})
		})

		e.GET("/search/tv", func(c echo.Context) error {
			results := []map[string]interface{}{}
			for _, s := range opts.Shows {
				if matches(s.Name, c.QueryParam("query")) {
					results = append(results, s.payload(false))
				}
			}
			return searchPage(c, results, opts.PageSize)
		})

		e.GET("/tv/:id", func(c echo.Context) error {
			for _, s := range opts.Shows {
				if strconv.FormatInt(s.ID, 10) == c.Param("id") {
					return c.JSON(http.StatusOK, s.payload(true))
				}
			}
			return notFound(c)
		})
	})
}

func searchPage(c echo.Context, results []map[string]interface{}, pageSize int) error {
	page := pageParam(c)
	items, total := paginate(results, page, pageSize)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page":          page,
		"total_pages":   total,
		"total_results": len(results),
		"results":       items,
	})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]interface{}{"status_code": 34, "status_message": "The resource you requested could not be found."})
}

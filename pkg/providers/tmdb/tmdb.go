// Package tmdb maps The Movie Database API onto catalog candidates.
package tmdb

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/robinjoseph08/golib/logger"
)

type Options struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	// MaxPages caps how many search result pages are fetched.
	MaxPages int
	Fetcher  *providers.Fetcher
}

type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	maxPages     int
	fetcher      *providers.Fetcher
}

var (
	_ providers.MovieProvider = (*Client)(nil)
	_ providers.TVProvider    = (*Client)(nil)
)

func New(opts Options) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(opts.ImageBaseURL, "/"),
		apiKey:       opts.APIKey,
		maxPages:     opts.MaxPages,
		fetcher:      opts.Fetcher,
	}
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movie struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Overview            string   `json:"overview"`
	ReleaseDate         string   `json:"release_date"`
	PosterPath          string   `json:"poster_path"`
	VoteAverage         *float64 `json:"vote_average"`
	VoteCount           *int     `json:"vote_count"`
	GenreIDs            []int    `json:"genre_ids"`
	Genres              []genre  `json:"genres"`
	OriginalLanguage    string   `json:"original_language"`
	Adult               bool     `json:"adult"`
	BelongsToCollection *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"belongs_to_collection"`
}

type show struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       string   `json:"poster_path"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []genre  `json:"genres"`
	OriginalLanguage string   `json:"original_language"`
	NumberOfSeasons  *int     `json:"number_of_seasons"`
	NumberOfEpisodes *int     `json:"number_of_episodes"`
	Status           *string  `json:"status"`
}

type page[T any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Results    []T `json:"results"`
}

type collection struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Parts []movie `json:"parts"`
}

// get fetches endpoint into v and reports whether it succeeded. Failures are
// logged.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v interface{}) bool {
	if params == nil {
		params = url.Values{}
	}
	cacheKey := "tmdb:" + endpoint + "?" + params.Encode()

	params.Set("api_key", c.apiKey)
	u := c.baseURL + "/" + endpoint + "?" + params.Encode()

	if err := c.fetcher.GetJSON(ctx, u, cacheKey, v); err != nil {
		logger.FromContext(ctx).Err(err).Warn("tmdb request failed", logger.Data{"endpoint": endpoint})
		return false
	}
	return true
}

func (c *Client) SearchMovies(ctx context.Context, query string) iter.Seq[providers.Candidate] {
	return providers.Paginate(c.maxPages, func(n int) ([]providers.Candidate, bool) {
		var res page[movie]
		params := url.Values{"query": {query}, "page": {strconv.Itoa(n)}}
		if !c.get(ctx, "search/movie", params, &res) {
			return nil, false
		}
		candidates := make([]providers.Candidate, 0, len(res.Results))
		for _, m := range res.Results {
			candidates = append(candidates, c.movieCandidate(m))
		}
		return candidates, res.Page < res.TotalPages
	})
}

func (c *Client) MovieDetails(ctx context.Context, id string) (*providers.Movie, bool) {
	var m movie
	if !c.get(ctx, "movie/"+url.PathEscape(id), nil, &m) {
		return nil, false
	}
	details := &providers.Movie{Candidate: c.movieCandidate(m)}
	if m.BelongsToCollection != nil && m.BelongsToCollection.ID != 0 {
		details.CollectionID = strconv.FormatInt(m.BelongsToCollection.ID, 10)
	}
	return details, true
}

func (c *Client) Collection(ctx context.Context, id string) []providers.Candidate {
	var col collection
	if !c.get(ctx, "collection/"+url.PathEscape(id), nil, &col) {
		return nil
	}
	candidates := make([]providers.Candidate, 0, len(col.Parts))
	for _, m := range col.Parts {
		candidates = append(candidates, c.movieCandidate(m))
	}
	return candidates
}

func (c *Client) SearchTV(ctx context.Context, query string) iter.Seq[providers.Candidate] {
	return providers.Paginate(c.maxPages, func(n int) ([]providers.Candidate, bool) {
		var res page[show]
		params := url.Values{"query": {query}, "page": {strconv.Itoa(n)}}
		if !c.get(ctx, "search/tv", params, &res) {
			return nil, false
		}
		candidates := make([]providers.Candidate, 0, len(res.Results))
		for _, s := range res.Results {
			candidates = append(candidates, c.showCandidate(s))
		}
		return candidates, res.Page < res.TotalPages
	})
}

func (c *Client) TVDetails(ctx context.Context, id string) (*providers.Show, bool) {
	var s show
	if !c.get(ctx, "tv/"+url.PathEscape(id), nil, &s) {
		return nil, false
	}
	details := &providers.Show{Candidate: c.showCandidate(s)}
	if s.NumberOfSeasons != nil {
		details.NumberOfSeasons = *s.NumberOfSeasons
	}
	return details, true
}

func (c *Client) movieCandidate(m movie) providers.Candidate {
	metadata := models.Metadata{
		"tmdb_id":           models.NumberValue(float64(m.ID)),
		"vote_average":      optionalNumber(m.VoteAverage),
		"vote_count":        optionalInt(m.VoteCount),
		"genre_ids":         genreIDs(m.GenreIDs, m.Genres),
		"original_language": optionalString(m.OriginalLanguage),
		"adult":             models.BoolValue(m.Adult),
	}
	return providers.Candidate{
		ExternalID:  strconv.FormatInt(m.ID, 10),
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		ImageURL:    c.imageURL(m.PosterPath),
		Description: nonEmpty(m.Overview),
		Rating:      m.VoteAverage,
		Metadata:    metadata,
	}
}

func (c *Client) showCandidate(s show) providers.Candidate {
	metadata := models.Metadata{
		"tmdb_id":            models.NumberValue(float64(s.ID)),
		"vote_average":       optionalNumber(s.VoteAverage),
		"vote_count":         optionalInt(s.VoteCount),
		"genre_ids":          genreIDs(s.GenreIDs, s.Genres),
		"original_language":  optionalString(s.OriginalLanguage),
		"number_of_seasons":  optionalInt(s.NumberOfSeasons),
		"number_of_episodes": optionalInt(s.NumberOfEpisodes),
		"status":             models.NullValue(),
	}
	if s.Status != nil {
		metadata["status"] = models.StringValue(*s.Status)
	}
	return providers.Candidate{
		ExternalID:  strconv.FormatInt(s.ID, 10),
		Title:       s.Name,
		ReleaseDate: s.FirstAirDate,
		ImageURL:    c.imageURL(s.PosterPath),
		Description: nonEmpty(s.Overview),
		Rating:      s.VoteAverage,
		Metadata:    metadata,
	}
}

func (c *Client) imageURL(posterPath string) *string {
	if posterPath == "" {
		return nil
	}
	u := c.imageBaseURL + posterPath
	return &u
}

// genreIDs prefers the search results' genre_ids and falls back to the IDs of
// the detail records' genres.
func genreIDs(ids []int, genres []genre) models.MetadataValue {
	out := make([]float64, 0, max(len(ids), len(genres)))
	if len(ids) > 0 {
		for _, id := range ids {
			out = append(out, float64(id))
		}
	} else {
		for _, g := range genres {
			out = append(out, float64(g.ID))
		}
	}
	return models.NumbersValue(out)
}

func optionalNumber(n *float64) models.MetadataValue {
	if n == nil {
		return models.NullValue()
	}
	return models.NumberValue(*n)
}

func optionalInt(n *int) models.MetadataValue {
	if n == nil {
		return models.NullValue()
	}
	return models.IntValue(*n)
}

func optionalString(s string) models.MetadataValue {
	if s == "" {
		return models.NullValue()
	}
	return models.StringValue(s)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

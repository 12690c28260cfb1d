// Package rawg maps the RAWG video game database onto catalog candidates.
package rawg

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/orderof/catalog/pkg/htmlutil"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/robinjoseph08/golib/logger"
)

type Options struct {
	BaseURL string
	APIKey  string
	// MaxPages caps how many search result pages are fetched.
	MaxPages int
	Fetcher  *providers.Fetcher
}

type Client struct {
	baseURL  string
	apiKey   string
	maxPages int
	fetcher  *providers.Fetcher
}

var _ providers.GameProvider = (*Client)(nil)

func New(opts Options) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		maxPages: opts.MaxPages,
		fetcher:  opts.Fetcher,
	}
}

type named struct {
	Name string `json:"name"`
}

type game struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Released        string   `json:"released"`
	BackgroundImage string   `json:"background_image"`
	Description     string   `json:"description"`
	DescriptionRaw  string   `json:"description_raw"`
	Rating          *float64 `json:"rating"`
	RatingTop       *int     `json:"rating_top"`
	RatingsCount    *int     `json:"ratings_count"`
	Metacritic      *int     `json:"metacritic"`
	Platforms       []struct {
		Platform named `json:"platform"`
	} `json:"platforms"`
	Genres     []named `json:"genres"`
	Developers []named `json:"developers"`
	Publishers []named `json:"publishers"`
	ESRBRating *named  `json:"esrb_rating"`
}

type gamesPage struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []game `json:"results"`
}

func (c *Client) SearchGames(ctx context.Context, query string) iter.Seq[providers.Candidate] {
	return providers.Paginate(c.maxPages, func(n int) ([]providers.Candidate, bool) {
		params := url.Values{"search": {query}, "page": {strconv.Itoa(n)}}
		cacheKey := "rawg:games?" + params.Encode()
		params.Set("key", c.apiKey)

		var res gamesPage
		if err := c.fetcher.GetJSON(ctx, c.baseURL+"/games?"+params.Encode(), cacheKey, &res); err != nil {
			logger.FromContext(ctx).Err(err).Warn("rawg request failed", logger.Data{"endpoint": "games", "page": n})
			return nil, false
		}

		candidates := make([]providers.Candidate, 0, len(res.Results))
		for _, g := range res.Results {
			candidates = append(candidates, gameCandidate(g))
		}
		return candidates, res.Next != ""
	})
}

func gameCandidate(g game) providers.Candidate {
	platforms := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		platforms = append(platforms, p.Platform.Name)
	}

	metadata := models.Metadata{
		"rawg_id":       models.NumberValue(float64(g.ID)),
		"rating":        models.NullValue(),
		"rating_top":    optionalInt(g.RatingTop),
		"ratings_count": optionalInt(g.RatingsCount),
		"metacritic":    optionalInt(g.Metacritic),
		"platforms":     models.StringsValue(platforms),
		"genres":        models.StringsValue(names(g.Genres)),
		"developers":    models.StringsValue(names(g.Developers)),
		"publishers":    models.StringsValue(names(g.Publishers)),
		"esrb_rating":   models.NullValue(),
	}
	if g.Rating != nil {
		metadata["rating"] = models.NumberValue(*g.Rating)
	}
	if g.ESRBRating != nil && g.ESRBRating.Name != "" {
		metadata["esrb_rating"] = models.StringValue(g.ESRBRating.Name)
	}

	candidate := providers.Candidate{
		ExternalID:  strconv.FormatInt(g.ID, 10),
		Title:       g.Name,
		ReleaseDate: g.Released,
		Rating:      g.Rating,
		Metadata:    metadata,
	}
	if g.BackgroundImage != "" {
		candidate.ImageURL = &g.BackgroundImage
	}

	description := g.DescriptionRaw
	if description == "" {
		description = htmlutil.StripTags(g.Description)
	}
	if description != "" {
		candidate.Description = &description
	}
	return candidate
}

func names(list []named) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		if n.Name != "" {
			out = append(out, n.Name)
		}
	}
	return out
}

func optionalInt(n *int) models.MetadataValue {
	if n == nil {
		return models.NullValue()
	}
	return models.IntValue(*n)
}

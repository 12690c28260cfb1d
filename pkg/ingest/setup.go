package ingest

import (
	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/orderof/catalog/pkg/providers/rawg"
	"github.com/orderof/catalog/pkg/providers/tmdb"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// NewFromConfig builds a pipeline backed by the TMDB and RAWG clients. The
// returned func releases the provider cache.
func NewFromConfig(cfg *config.Config, db *bun.DB) (*Pipeline, func() error, error) {
	log := logger.New()

	var cache providers.Cache
	closeCache := func() error { return nil }
	if cfg.RedisAddr != "" {
		redisCache, err := providers.NewRedisCache(providers.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		cache = redisCache
		closeCache = redisCache.Close
		log.Info("caching provider responses in redis", logger.Data{"addr": cfg.RedisAddr})
	} else {
		cache = providers.NewMemoryCache()
	}

	if cfg.TMDBAPIKey == "" {
		log.Warn("tmdb_api_key is not set, movie and TV syncs will find nothing")
	}
	if cfg.RAWGAPIKey == "" {
		log.Warn("rawg_api_key is not set, game syncs will find nothing")
	}

	newFetcher := func(name string) *providers.Fetcher {
		return providers.NewFetcher(providers.FetcherOptions{
			Name:              name,
			Timeout:           cfg.ProviderTimeout,
			RequestsPerSecond: cfg.ProviderRequestsPerSecond,
			Cache:             cache,
			CacheTTL:          cfg.ProviderCacheTTL,
		})
	}

	tmdbClient := tmdb.New(tmdb.Options{
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		APIKey:       cfg.TMDBAPIKey,
		MaxPages:     cfg.ProviderMaxPages,
		Fetcher:      newFetcher("tmdb"),
	})
	rawgClient := rawg.New(rawg.Options{
		BaseURL:  cfg.RAWGBaseURL,
		APIKey:   cfg.RAWGAPIKey,
		MaxPages: cfg.ProviderMaxPages,
		Fetcher:  newFetcher("rawg"),
	})

	pipeline := New(db, Options{
		Movies:               tmdbClient,
		TV:                   tmdbClient,
		Games:                rawgClient,
		CollectionProbeLimit: cfg.CollectionProbeLimit,
		ProbeConcurrency:     cfg.ProbeConcurrency,
	})
	return pipeline, closeCache, nil
}

package providers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

const maxResponseSize = 10 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return e.Provider + " returned status " + http.StatusText(e.StatusCode)
}

type FetcherOptions struct {
	// Name identifies the provider in logs and errors.
	Name string
	// Client defaults to an http.Client with Timeout.
	Client  *http.Client
	Timeout time.Duration
	// RequestsPerSecond of zero or less disables rate limiting.
	RequestsPerSecond float64
	// Cache is optional. Responses are only cached when CacheTTL is positive.
	Cache    Cache
	CacheTTL time.Duration
}

// Fetcher performs rate-limited, cached JSON GET requests against a single
// provider.
type Fetcher struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	cache   Cache
	ttl     time.Duration
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Fetcher{
		name:    opts.Name,
		client:  client,
		limiter: limiter,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
	}
}

func (f *Fetcher) Name() string {
	return f.name
}

// GetJSON decodes the JSON body at rawURL into v. cacheKey must identify the
// request without any credentials in it; an empty key skips the cache.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL, cacheKey string, v interface{}) error {
	useCache := f.cache != nil && f.ttl > 0 && cacheKey != ""
	if useCache {
		if body, ok := f.cache.Get(ctx, cacheKey); ok {
			return errors.WithStack(json.Unmarshal(body, v))
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", f.name)
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).Debug("provider request", logger.Data{
		"provider":    f.name,
		"cache_key":   cacheKey,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithStack(&StatusError{Provider: f.name, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", f.name)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", f.name)
	}

	if useCache {
		f.cache.Set(ctx, cacheKey, body, f.ttl)
	}
	return nil
}

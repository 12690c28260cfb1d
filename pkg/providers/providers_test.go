package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	var fetched []int
	seq := Paginate(5, func(page int) ([]Candidate, bool) {
		fetched = append(fetched, page)
		return []Candidate{{ExternalID: string(rune('a' + page - 1))}, {ExternalID: string(rune('A' + page - 1))}}, page < 3
	})

	t.Run("stops at the last page", func(t *testing.T) {
		fetched = nil
		all := Take(seq, 100)
		assert.Len(t, all, 6)
		assert.Equal(t, []int{1, 2, 3}, fetched)
	})

	t.Run("stops when the consumer does", func(t *testing.T) {
		fetched = nil
		first := Take(seq, 3)
		assert.Len(t, first, 3)
		assert.Equal(t, []int{1, 2}, fetched)
	})

	t.Run("stops at the page cap", func(t *testing.T) {
		fetched = nil
		endless := Paginate(2, func(page int) ([]Candidate, bool) {
			fetched = append(fetched, page)
			return []Candidate{{ExternalID: "x"}}, true
		})
		assert.Len(t, Take(endless, 100), 2)
		assert.Equal(t, []int{1, 2}, fetched)
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "k", []byte("v"), time.Minute)
	value, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_SweepsOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "search/movie?query=alien", []byte("a"), time.Minute)
	cache.Set(ctx, "search/movie?query=heat", []byte("b"), time.Minute)
	assert.Equal(t, 2, cache.Len())

	now = now.Add(2 * time.Minute)
	cache.Set(ctx, "search/tv?query=lost", []byte("c"), time.Minute)
	assert.Equal(t, 1, cache.Len())

	value, ok := cache.Get(ctx, "search/tv?query=lost")
	require.True(t, ok)
	assert.Equal(t, []byte("c"), value)
}

func TestMemoryCache_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	cache.maxEntries = 2

	cache.Set(ctx, "short", []byte("1"), time.Minute)
	cache.Set(ctx, "long", []byte("2"), time.Hour)
	cache.Set(ctx, "long", []byte("2b"), time.Hour)
	assert.Equal(t, 2, cache.Len())

	cache.Set(ctx, "new", []byte("3"), time.Hour)
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get(ctx, "short")
	assert.False(t, ok)
	value, ok := cache.Get(ctx, "long")
	require.True(t, ok)
	assert.Equal(t, []byte("2b"), value)
	_, ok = cache.Get(ctx, "new")
	assert.True(t, ok)
}

func TestRedisCache_UnreachableIsAMiss(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	cache := NewRedisCacheWithClient(client, "test:")
	defer cache.Close()

	cache.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestFetcher_GetJSON(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"Halo"}`))
		case "/bad-json":
			_, _ = w.Write([]byte(`{"name":`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	f := NewFetcher(FetcherOptions{
		Name:     "test",
		Timeout:  time.Second,
		Cache:    NewMemoryCache(),
		CacheTTL: time.Minute,
	})

	var body struct {
		Name string `json:"name"`
	}
	require.NoError(t, f.GetJSON(ctx, srv.URL+"/ok?key=secret", "/ok", &body))
	assert.Equal(t, "Halo", body.Name)

	t.Run("second request is served from the cache", func(t *testing.T) {
		body.Name = ""
		require.NoError(t, f.GetJSON(ctx, srv.URL+"/ok?key=secret", "/ok", &body))
		assert.Equal(t, "Halo", body.Name)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("non-2xx", func(t *testing.T) {
		err := f.GetJSON(ctx, srv.URL+"/down", "/down", &body)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)

		var traced interface{ StackTrace() errors.StackTrace }
		assert.True(t, errors.As(err, &traced), "status errors carry a stack trace")
	})

	t.Run("malformed body", func(t *testing.T) {
		err := f.GetJSON(ctx, srv.URL+"/bad-json", "/bad-json", &body)
		assert.Error(t, err)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		before := hits.Load()
		_ = f.GetJSON(ctx, srv.URL+"/down", "/down", &body)
		assert.Equal(t, before+1, hits.Load())
	})
}

func TestFetcher_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{Name: "test", Timeout: time.Second, RequestsPerSecond: 20})

	var body map[string]interface{}
	start := time.Now()
	for range 3 {
		require.NoError(t, f.GetJSON(context.Background(), srv.URL, "", &body))
	}
	// The first request uses the burst; the next two wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

package ingest

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/robinjoseph08/golib/pointerutil"
)

func candidate(id, title, releaseDate string) providers.Candidate {
	return providers.Candidate{
		ExternalID:  id,
		Title:       title,
		ReleaseDate: releaseDate,
		Rating:      pointerutil.Float64(7.5),
		Metadata:    models.Metadata{"tmdb_id": models.StringValue(id)},
	}
}

type fakeMovies struct {
	search      []providers.Candidate
	details     map[string]*providers.Movie
	collections map[string][]providers.Candidate

	mu          sync.Mutex
	detailCalls []string
}

func (f *fakeMovies) SearchMovies(_ context.Context, _ string) iter.Seq[providers.Candidate] {
	return slices.Values(f.search)
}

func (f *fakeMovies) MovieDetails(_ context.Context, id string) (*providers.Movie, bool) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	f.mu.Unlock()
	m, ok := f.details[id]
	return m, ok
}

func (f *fakeMovies) Collection(_ context.Context, id string) []providers.Candidate {
	return f.collections[id]
}

type fakeTV struct {
	search  []providers.Candidate
	details map[string]*providers.Show
}

func (f *fakeTV) SearchTV(_ context.Context, _ string) iter.Seq[providers.Candidate] {
	return slices.Values(f.search)
}

func (f *fakeTV) TVDetails(_ context.Context, id string) (*providers.Show, bool) {
	s, ok := f.details[id]
	return s, ok
}

type fakeGames struct {
	search []providers.Candidate
}

func (f *fakeGames) SearchGames(_ context.Context, _ string) iter.Seq[providers.Candidate] {
	return slices.Values(f.search)
}

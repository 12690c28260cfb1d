package ingest

import (
	"context"
	"testing"

	"github.com/orderof/catalog/pkg/franchises"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/orderof/catalog/pkg/testutils"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPopular(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	existing := testutils.CreateFranchise(t, db, "Star Wars", models.CategoryMovies, 7)
	games := &fakeGames{search: []providers.Candidate{candidate("1", "Halo 3", "2007-09-25")}}
	p := newPipeline(db, nil, nil, games)

	result, err := p.SyncPopular(ctx)
	require.NoError(t, err)
	total := len(PopularMovieFranchises) + len(PopularGameFranchises) + len(PopularTVFranchises)
	assert.Equal(t, total, result.Attempted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, total-1, result.Synced)
	assert.Zero(t, result.Failed)

	franchiseService := franchises.NewService(db)
	starWars, err := franchiseService.RetrieveFranchiseByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, starWars.PopularityScore)

	halo, err := franchiseService.RetrieveFranchise(ctx, franchises.RetrieveFranchiseOptions{Slug: pointerutil.String("halo")})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGames, halo.Category)
	assert.Equal(t, 100, halo.PopularityScore)
	assert.Equal(t, "Popular game franchise: Halo", *halo.Description)

	office, err := franchiseService.RetrieveFranchise(ctx, franchises.RetrieveFranchiseOptions{Slug: pointerutil.String("the-office")})
	require.NoError(t, err)
	assert.Equal(t, models.CategorySeries, office.Category)
	assert.Equal(t, "Popular TV franchise: The Office", *office.Description)

	again, err := p.SyncPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, again.Skipped)
	assert.Zero(t, again.Synced)
}

func TestResolveFranchise(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	p := newPipeline(db, nil, nil, nil)

	created, err := p.ResolveFranchise(ctx, models.SyncProviderTMDBTV, nil, "Doctor Who")
	require.NoError(t, err)
	assert.Equal(t, "doctor-who", created.Slug)
	assert.Equal(t, models.CategorySeries, created.Category)
	assert.Equal(t, 50, created.PopularityScore)
	assert.Equal(t, "TV series franchise: Doctor Who", *created.Description)

	found, err := p.ResolveFranchise(ctx, models.SyncProviderRAWGGames, nil, "Doctor  Who")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := p.ResolveFranchise(ctx, models.SyncProviderTMDBMovies, &created.ID, "ignored")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	_, err = p.ResolveFranchise(ctx, models.SyncProviderTMDBMovies, pointerutil.String("missing"), "ignored")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	testutils.CreateFranchise(t, db, "Alien", models.CategoryMovies, 0)
	games := &fakeGames{search: []providers.Candidate{
		candidate("1", "Halo", "2001-11-15"),
		candidate("2", "Halo 2", "2004-11-09"),
	}}
	p := newPipeline(db, nil, nil, games)

	_, err := p.SyncGames(ctx, franchise.ID, "Halo")
	require.NoError(t, err)

	status, err := p.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalFranchises)
	assert.Equal(t, 2, status.TotalItems)
	assert.Equal(t, 1, status.ByCategory[models.CategoryGames])
	assert.Equal(t, 0, status.ByCategory[models.CategoryBooks])
	require.Len(t, status.RecentRuns, 1)
	assert.Equal(t, models.SyncProviderRAWGGames, status.RecentRuns[0].Provider)
	assert.Equal(t, 2, status.RecentRuns[0].ItemsCreated)
}

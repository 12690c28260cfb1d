package franchises

import (
	"context"
	"net/http"
	"testing"

	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/testutils"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFranchise(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	franchise := &models.Franchise{Name: "Mission: Impossible", Category: models.CategoryMovies}
	require.NoError(t, svc.CreateFranchise(ctx, franchise))
	assert.NotEmpty(t, franchise.ID)
	assert.Equal(t, "mission-impossible", franchise.Slug)
	assert.Equal(t, 0, franchise.PopularityScore)

	t.Run("same slug conflicts", func(t *testing.T) {
		err := svc.CreateFranchise(ctx, &models.Franchise{Name: "mission impossible", Category: models.CategoryMovies})
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, http.StatusConflict, codeErr.HTTPCode)
	})

	t.Run("name without letters or digits", func(t *testing.T) {
		err := svc.CreateFranchise(ctx, &models.Franchise{Name: "!!!", Category: models.CategoryMovies})
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, http.StatusBadRequest, codeErr.HTTPCode)
	})
}

func TestFindOrCreateFranchise(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	first, created, err := svc.FindOrCreateFranchise(ctx, &models.Franchise{Name: "The Witcher", Category: models.CategoryGames, PopularityScore: 50})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.FindOrCreateFranchise(ctx, &models.Franchise{Name: "the witcher", Category: models.CategoryGames})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 50, second.PopularityScore)
}

func TestListFranchises(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	testutils.CreateFranchise(t, db, "Zelda", models.CategoryGames, 80)
	testutils.CreateFranchise(t, db, "Alien", models.CategoryMovies, 80)
	testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 90)
	testutils.CreateFranchise(t, db, "Dune", models.CategoryMovies, 10)

	t.Run("popularity then name", func(t *testing.T) {
		list, total, err := svc.ListFranchisesWithTotal(ctx, ListFranchisesOptions{})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		names := make([]string, len(list))
		for i, f := range list {
			names[i] = f.Name
		}
		assert.Equal(t, []string{"Halo", "Alien", "Zelda", "Dune"}, names)
	})

	t.Run("category and pagination", func(t *testing.T) {
		list, total, err := svc.ListFranchisesWithTotal(ctx, ListFranchisesOptions{
			Category: pointerutil.String(models.CategoryGames),
			Limit:    pointerutil.Int(1),
			Offset:   pointerutil.Int(1),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, list, 1)
		assert.Equal(t, "Zelda", list[0].Name)
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		list, err := svc.ListFranchises(ctx, ListFranchisesOptions{Search: pointerutil.String("LI")})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Alien", list[0].Name)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		list, err := svc.ListFranchises(ctx, ListFranchisesOptions{Search: pointerutil.String("%")})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestUpdateFranchise_KeepsSlug(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Fast and Furious", models.CategoryMovies, 0)
	before := franchise.UpdatedAt

	franchise.Name = "The Fast Saga"
	require.NoError(t, svc.UpdateFranchise(ctx, franchise, UpdateFranchiseOptions{Columns: []string{"name"}}))

	retrieved, err := svc.RetrieveFranchiseByID(ctx, franchise.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Fast Saga", retrieved.Name)
	assert.Equal(t, "fast-and-furious", retrieved.Slug)
	assert.False(t, retrieved.UpdatedAt.Before(before))
	assert.Equal(t, "the fast saga", retrieved.SearchText)

	list, err := svc.ListFranchises(ctx, ListFranchisesOptions{Search: pointerutil.String("FAST SAGA")})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, franchise.ID, list[0].ID)
}

func TestCountFranchisesByCategory(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	testutils.CreateFranchise(t, db, "Zelda", models.CategoryGames, 0)

	counts, err := svc.CountFranchisesByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.CategoryGames])
	assert.Equal(t, 0, counts[models.CategoryMovies])
	assert.Len(t, counts, len(models.Categories))
}

func TestFindOrCreateFranchise_ConcurrentInsertIsLookedUp(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	racing := &models.Franchise{Name: "The Witcher", Category: models.CategoryGames, PopularityScore: 100}
	hook := &testutils.InsertAfterMiss{Table: "franchises", Insert: func(ctx context.Context) {
		require.NoError(t, svc.CreateFranchise(ctx, racing))
	}}
	db.AddQueryHook(hook)

	franchise, created, err := svc.FindOrCreateFranchise(ctx, &models.Franchise{Name: "the witcher", Category: models.CategoryGames, PopularityScore: 50})
	require.NoError(t, err)
	assert.True(t, hook.Fired())
	assert.False(t, created)
	assert.Equal(t, racing.ID, franchise.ID)
	assert.Equal(t, 100, franchise.PopularityScore)
}

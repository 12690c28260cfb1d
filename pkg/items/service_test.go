package items

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

func TestCreateItem(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Alien", models.CategoryMovies, 0)

	item := &models.Item{
		FranchiseID: franchise.ID,
		Title:       "Aliens: Colonial Marines",
		ExternalID:  pointerutil.String("679"),
		ReleaseDate: models.ParseDate("1986-07-18"),
		APIMetadata: models.Metadata{"tmdb_id": models.IntValue(679)},
	}
	require.NoError(t, svc.CreateItem(ctx, item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "aliens-colonial-marines", item.Slug)

	retrieved, err := svc.RetrieveItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "1986-07-18", retrieved.ReleaseDate.String())
	id, ok := retrieved.APIMetadata["tmdb_id"].AsNumber()
	assert.True(t, ok)
	assert.InDelta(t, 679, id, 0)

	t.Run("duplicate external ID in the same franchise conflicts", func(t *testing.T) {
		dup := &models.Item{FranchiseID: franchise.ID, Title: "Aliens again", ExternalID: pointerutil.String("679")}
		err := svc.CreateItem(ctx, dup)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, http.StatusConflict, codeErr.HTTPCode)
	})

	t.Run("same external ID in another franchise is allowed", func(t *testing.T) {
		other := testutils.CreateFranchise(t, db, "Alien vs Predator", models.CategoryMovies, 0)
		dup := &models.Item{FranchiseID: other.ID, Title: "Aliens", ExternalID: pointerutil.String("679")}
		require.NoError(t, svc.CreateItem(ctx, dup))
	})

	t.Run("items without external IDs never conflict", func(t *testing.T) {
		require.NoError(t, svc.CreateItem(ctx, &models.Item{FranchiseID: franchise.ID, Title: "Fan Edit"}))
		require.NoError(t, svc.CreateItem(ctx, &models.Item{FranchiseID: franchise.ID, Title: "Fan Edit"}))
	})

	t.Run("missing item is not found", func(t *testing.T) {
		_, err := svc.RetrieveItemByID(ctx, "nope")
		assert.ErrorIs(t, err, errcodes.NotFound("Item"))
	})
}

func TestFindOrCreateItem(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)

	first, created, err := svc.FindOrCreateItem(ctx, &models.Item{
		FranchiseID: franchise.ID,
		Title:       "Halo: Combat Evolved",
		ExternalID:  pointerutil.String("rawg-1"),
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.FindOrCreateItem(ctx, &models.Item{
		FranchiseID: franchise.ID,
		Title:       "Renamed upstream",
		ExternalID:  pointerutil.String("rawg-1"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Halo: Combat Evolved", second.Title, "existing items are not updated")

	_, _, err = svc.FindOrCreateItem(ctx, &models.Item{FranchiseID: franchise.ID, Title: "No ID"})
	require.Error(t, err)
}

func TestListItems_OrdersByReleaseDateWithUndatedFirst(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Star Wars", models.CategoryMovies, 0)
	other := testutils.CreateFranchise(t, db, "Star Trek", models.CategoryMovies, 0)

	testutils.CreateItem(t, db, franchise.ID, "The Empire Strikes Back", "1980-05-21")
	testutils.CreateItem(t, db, franchise.ID, "Untitled Project", "")
	testutils.CreateItem(t, db, franchise.ID, "A New Hope", "1977-05-25")
	testutils.CreateItem(t, db, other.ID, "The Motion Picture", "1979-12-07")

	items, err := svc.ListItems(ctx, ListItemsOptions{FranchiseID: &franchise.ID})
	require.NoError(t, err)

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	assert.Equal(t, []string{"Untitled Project", "A New Hope", "The Empire Strikes Back"}, titles)
	assert.Nil(t, items[0].ReleaseDate)
}

func TestFindOrCreateItem_ConcurrentInsertIsLookedUp(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)

	racing := &models.Item{
		FranchiseID: franchise.ID,
		Title:       "Halo 2",
		ExternalID:  pointerutil.String("rawg-2"),
	}
	hook := &testutils.InsertAfterMiss{Table: "items", Insert: func(ctx context.Context) {
		require.NoError(t, svc.CreateItem(ctx, racing))
	}}
	db.AddQueryHook(hook)

	item, created, err := svc.FindOrCreateItem(ctx, &models.Item{
		FranchiseID: franchise.ID,
		Title:       "Halo 2: Anniversary",
		ExternalID:  pointerutil.String("rawg-2"),
	})
	require.NoError(t, err)
	assert.True(t, hook.Fired())
	assert.False(t, created)
	assert.Equal(t, racing.ID, item.ID)
	assert.Equal(t, "Halo 2", item.Title)

	count, err := svc.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

package affiliates

import (
	"context"
	"strings"
	"testing"

	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/testutils"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateForFranchise(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Star Wars", models.CategoryMovies, 0)
	testutils.CreateItem(t, db, franchise.ID, "A New Hope", "1977-05-25")
	testutils.CreateItem(t, db, franchise.ID, "The Empire Strikes Back", "1980-05-21")

	links, err := svc.GenerateForFranchise(ctx, GenerateOptions{FranchiseID: franchise.ID})
	require.NoError(t, err)
	require.Len(t, links, 4)

	byRegion := map[string]int{}
	for _, link := range links {
		require.NotNil(t, link.Region)
		byRegion[*link.Region]++
		assert.Equal(t, models.PlatformAmazon, link.Platform)
		assert.True(t, link.IsActive)
		assert.NotContains(t, link.URL, " ")

		switch *link.Region {
		case models.RegionUK:
			assert.True(t, strings.HasPrefix(link.URL, "https://www.amazon.co.uk/s?k="))
			assert.Contains(t, link.URL, "tag=orderof-21")
			assert.Equal(t, "GBP", *link.Currency)
		case models.RegionUS:
			assert.True(t, strings.HasPrefix(link.URL, "https://www.amazon.com/s?k="))
			assert.Contains(t, link.URL, "tag=orderof-20")
			assert.Equal(t, "USD", *link.Currency)
		}
	}
	assert.Equal(t, map[string]int{models.RegionUK: 2, models.RegionUS: 2}, byRegion)
	assert.Contains(t, links[0].URL+links[2].URL, "A+New+Hope")
	assert.Contains(t, links[0].URL+links[2].URL, "The+Empire+Strikes+Back")

	t.Run("not idempotent", func(t *testing.T) {
		again, err := svc.GenerateForFranchise(ctx, GenerateOptions{FranchiseID: franchise.ID})
		require.NoError(t, err)
		assert.Len(t, again, 4)

		all, err := svc.ListLinks(ctx, ListLinksOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 8)
	})

	t.Run("tag overrides", func(t *testing.T) {
		other := testutils.CreateFranchise(t, db, "Dune", models.CategoryMovies, 0)
		testutils.CreateItem(t, db, other.ID, "Dune", "")
		links, err := svc.GenerateForFranchise(ctx, GenerateOptions{
			FranchiseID: other.ID,
			Tags:        map[string]string{models.RegionUS: "custom-20"},
		})
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Contains(t, links[0].URL, "tag=orderof-21")
		assert.Contains(t, links[1].URL, "tag=custom-20")
		assert.Equal(t, "custom-20", *links[1].AffiliateTag)
	})

	t.Run("missing franchise", func(t *testing.T) {
		_, err := svc.GenerateForFranchise(ctx, GenerateOptions{FranchiseID: "missing"})
		assert.ErrorIs(t, err, errcodes.NotFound("Franchise"))
	})
}

func TestCreateLink_DefaultTag(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	item := testutils.CreateItem(t, db, franchise.ID, "Halo 3", "2007-09-25")

	link := &models.AffiliateLink{
		ItemID:   item.ID,
		Platform: models.PlatformAmazon,
		Region:   pointerutil.String(models.RegionUK),
		URL:      "https://www.amazon.co.uk/dp/B000",
		Price:    decimal.NewNullDecimal(decimal.RequireFromString("19.99")),
		IsActive: true,
	}
	require.NoError(t, svc.CreateLink(ctx, link))
	require.NotNil(t, link.AffiliateTag)
	assert.Equal(t, "orderof-21", *link.AffiliateTag)

	retrieved, err := svc.RetrieveLink(ctx, link.ID)
	require.NoError(t, err)
	require.True(t, retrieved.Price.Valid)
	assert.Equal(t, "19.99", retrieved.Price.Decimal.String())

	steam := &models.AffiliateLink{ItemID: item.ID, Platform: models.PlatformSteam, Region: pointerutil.String(models.RegionUS), URL: "https://store.steampowered.com/app/1"}
	require.NoError(t, svc.CreateLink(ctx, steam))
	assert.Nil(t, steam.AffiliateTag)
}

func TestBulkCreate_SkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	item := testutils.CreateItem(t, db, franchise.ID, "Halo 3", "2007-09-25")

	created, err := svc.BulkCreate(ctx, []*models.AffiliateLink{
		{ItemID: item.ID, Platform: models.PlatformSteam, URL: "https://store.steampowered.com/app/1", IsActive: true},
		{ItemID: item.ID, Platform: models.PlatformSteam},
		{ItemID: "missing", Platform: models.PlatformSteam, URL: "https://store.steampowered.com/app/2"},
		{Platform: models.PlatformOther, URL: "https://example.com"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "https://store.steampowered.com/app/1", created[0].URL)
}

func TestUpdateAndDeleteLink(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	item := testutils.CreateItem(t, db, franchise.ID, "Halo 3", "2007-09-25")
	link := testutils.CreateAffiliateLink(t, db, item.ID, models.PlatformSteam, true)

	link.IsActive = false
	require.NoError(t, svc.UpdateLink(ctx, link, UpdateLinkOptions{Columns: []string{"is_active"}}))

	active, err := svc.ListLinks(ctx, ListLinksOptions{ItemID: &item.ID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.DeleteLink(ctx, link.ID))
	assert.ErrorIs(t, svc.DeleteLink(ctx, link.ID), errcodes.NotFound("Affiliate link"))
	_, err = svc.RetrieveLink(ctx, link.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Affiliate link"))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	franchise := testutils.CreateFranchise(t, db, "Halo", models.CategoryGames, 0)
	item := testutils.CreateItem(t, db, franchise.ID, "Halo 3", "2007-09-25")
	testutils.CreateAffiliateLink(t, db, item.ID, models.PlatformAmazon, true)
	testutils.CreateAffiliateLink(t, db, item.ID, models.PlatformAmazon, true)
	testutils.CreateAffiliateLink(t, db, item.ID, models.PlatformSteam, false)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLinks)
	assert.Equal(t, 2, stats.ActiveLinks)
	assert.Equal(t, 1, stats.InactiveLinks)
	assert.Equal(t, 2, stats.PlatformBreakdown[models.PlatformAmazon])
	assert.Equal(t, 0, stats.PlatformBreakdown[models.PlatformSteam])
	assert.Len(t, stats.PlatformBreakdown, len(StatsPlatforms))
}

// Package testutils provides database fixtures for package tests.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/migrations"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/slugs"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewDB returns a migrated in-memory database that is closed when the test
// finishes.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func CreateFranchise(t *testing.T, db bun.IDB, name, category string, popularity int) *models.Franchise {
	t.Helper()
	now := time.Now()
	franchise := &models.Franchise{
		ID:              uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Name:            name,
		Slug:            slugs.Slugify(name),
		Category:        category,
		PopularityScore: popularity,
	}
	_, err := db.NewInsert().Model(franchise).Exec(context.Background())
	require.NoError(t, err)
	return franchise
}

// CreateItem inserts an item. releaseDate may be empty for an undated item.
func CreateItem(t *testing.T, db bun.IDB, franchiseID, title, releaseDate string) *models.Item {
	t.Helper()
	now := time.Now()
	item := &models.Item{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		FranchiseID: franchiseID,
		Title:       title,
		Slug:        slugs.Slugify(title),
		ReleaseDate: models.ParseDate(releaseDate),
	}
	_, err := db.NewInsert().Model(item).Exec(context.Background())
	require.NoError(t, err)
	return item
}

func CreateOrder(t *testing.T, db bun.IDB, franchiseID, orderType string) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		FranchiseID: franchiseID,
		OrderType:   orderType,
		Name:        orderType,
	}
	_, err := db.NewInsert().Model(order).Exec(context.Background())
	require.NoError(t, err)
	return order
}

func AddOrderItem(t *testing.T, db bun.IDB, orderID, itemID string, position int) *models.OrderItem {
	t.Helper()
	now := time.Now()
	oi := &models.OrderItem{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		OrderID:   orderID,
		ItemID:    itemID,
		Position:  position,
	}
	_, err := db.NewInsert().Model(oi).Exec(context.Background())
	require.NoError(t, err)
	return oi
}

func CreateAffiliateLink(t *testing.T, db bun.IDB, itemID, platform string, active bool) *models.AffiliateLink {
	t.Helper()
	now := time.Now()
	link := &models.AffiliateLink{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ItemID:    itemID,
		Platform:  platform,
		URL:       "https://example.com/" + itemID,
		IsActive:  active,
	}
	_, err := db.NewInsert().Model(link).Exec(context.Background())
	require.NoError(t, err)
	return link
}

package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		statements := []string{
			`CREATE TABLE franchises (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				slug TEXT NOT NULL,
				category TEXT NOT NULL,
				description TEXT,
				image_url TEXT,
				popularity_score INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX ux_franchises_slug ON franchises (slug)`,
			`CREATE INDEX ix_franchises_category ON franchises (category)`,
			`CREATE INDEX ix_franchises_popularity_score ON franchises (popularity_score DESC)`,

			`CREATE TABLE items (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				franchise_id TEXT REFERENCES franchises (id) ON DELETE CASCADE NOT NULL,
				title TEXT NOT NULL,
				slug TEXT NOT NULL,
				description TEXT,
				release_date DATE,
				image_url TEXT,
				external_id TEXT,
				api_metadata TEXT,
				rating REAL
			)`,
			// Items created by hand have no external_id and are never deduplicated.
			`CREATE UNIQUE INDEX ux_items_franchise_external_id ON items (franchise_id, external_id) WHERE external_id IS NOT NULL`,
			`CREATE INDEX ix_items_franchise_release_date ON items (franchise_id, release_date)`,

			`CREATE TABLE orders (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				franchise_id TEXT REFERENCES franchises (id) ON DELETE CASCADE NOT NULL,
				order_type TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT,
				is_official BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE UNIQUE INDEX ux_orders_franchise_order_type ON orders (franchise_id, order_type)`,

			`CREATE TABLE order_items (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				order_id TEXT REFERENCES orders (id) ON DELETE CASCADE NOT NULL,
				item_id TEXT REFERENCES items (id) ON DELETE CASCADE NOT NULL,
				position INTEGER NOT NULL CHECK (position >= 1),
				notes TEXT,
				is_optional BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE UNIQUE INDEX ux_order_items_order_position ON order_items (order_id, position)`,
			`CREATE INDEX ix_order_items_item_id ON order_items (item_id)`,

			`CREATE TABLE affiliate_links (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				item_id TEXT REFERENCES items (id) ON DELETE CASCADE NOT NULL,
				platform TEXT NOT NULL,
				region TEXT,
				url TEXT NOT NULL,
				affiliate_tag TEXT,
				price TEXT,
				currency TEXT,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE INDEX ix_affiliate_links_item_id ON affiliate_links (item_id)`,
			`CREATE INDEX ix_affiliate_links_platform ON affiliate_links (platform)`,
		}

		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"affiliate_links", "order_items", "orders", "items", "franchises"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}

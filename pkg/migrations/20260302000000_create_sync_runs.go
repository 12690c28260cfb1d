package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE sync_runs (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				franchise_id TEXT REFERENCES franchises (id) ON DELETE CASCADE NOT NULL,
				provider TEXT NOT NULL,
				query TEXT NOT NULL,
				status TEXT NOT NULL,
				candidates INTEGER NOT NULL DEFAULT 0,
				items_created INTEGER NOT NULL DEFAULT 0,
				items_reused INTEGER NOT NULL DEFAULT 0,
				order_created BOOLEAN NOT NULL DEFAULT FALSE,
				order_items INTEGER NOT NULL DEFAULT 0,
				error TEXT,
				duration_ms INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Status page lists the most recent runs first.
		_, err = db.Exec(`CREATE INDEX ix_sync_runs_created_at ON sync_runs (created_at)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_sync_runs_franchise_id ON sync_runs (franchise_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS sync_runs")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}

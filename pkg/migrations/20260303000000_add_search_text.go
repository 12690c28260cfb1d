package migrations

import (
	"context"

	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		for _, table := range []string{"franchises", "items"} {
			_, err := db.ExecContext(ctx, "ALTER TABLE ? ADD COLUMN search_text TEXT NOT NULL DEFAULT ''", bun.Ident(table))
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if err := backfillSearchText(ctx, db, "franchises", "name"); err != nil {
			return err
		}
		return backfillSearchText(ctx, db, "items", "title")
	}

	down := func(ctx context.Context, db *bun.DB) error {
		for _, table := range []string{"items", "franchises"} {
			_, err := db.ExecContext(ctx, "ALTER TABLE ? DROP COLUMN search_text", bun.Ident(table))
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}

// backfillSearchText folds rows that predate the column. lower() in SQLite
// only handles ASCII, so the folding happens here.
func backfillSearchText(ctx context.Context, db *bun.DB, table, nameColumn string) error {
	var rows []struct {
		ID          string  `bun:"id"`
		Name        string  `bun:"name"`
		Description *string `bun:"description"`
	}
	err := db.NewSelect().
		Table(table).
		ColumnExpr("id, ? AS name, description", bun.Ident(nameColumn)).
		Scan(ctx, &rows)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, row := range rows {
		_, err := db.ExecContext(ctx, "UPDATE ? SET search_text = ? WHERE id = ?",
			bun.Ident(table), models.FoldSearchText(row.Name, row.Description), row.ID)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

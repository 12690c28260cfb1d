package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// CatalogTables lists the tables the migrations own, parents first.
var CatalogTables = []string{
	"franchises",
	"items",
	"orders",
	"order_items",
	"affiliate_links",
	"sync_runs",
}

type TableStatus struct {
	Name   string
	Exists bool
	Rows   int
}

type Status struct {
	Applied   []string
	Unapplied []string
	LastGroup *migrate.MigrationGroup
	Tables    []TableStatus
}

// CurrentStatus reports which migrations have run and how many rows each
// catalog table holds.
func CurrentStatus(ctx context.Context, db *bun.DB) (*Status, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	status := &Status{
		Applied:   []string{},
		Unapplied: []string{},
		LastGroup: ms.LastGroup(),
		Tables:    make([]TableStatus, 0, len(CatalogTables)),
	}
	for _, m := range ms {
		if m.IsApplied() {
			status.Applied = append(status.Applied, m.String())
		} else {
			status.Unapplied = append(status.Unapplied, m.String())
		}
	}

	for _, table := range CatalogTables {
		ts, err := tableStatus(ctx, db, table)
		if err != nil {
			return nil, err
		}
		status.Tables = append(status.Tables, ts)
	}
	return status, nil
}

func tableStatus(ctx context.Context, db *bun.DB, table string) (TableStatus, error) {
	ts := TableStatus{Name: table}

	var found int
	err := db.NewSelect().
		TableExpr("sqlite_master").
		ColumnExpr("COUNT(*)").
		Where("type = 'table'").
		Where("name = ?", table).
		Scan(ctx, &found)
	if err != nil {
		return ts, errors.WithStack(err)
	}
	if found == 0 {
		return ts, nil
	}

	ts.Exists = true
	err = db.NewSelect().
		Table(table).
		ColumnExpr("COUNT(*)").
		Scan(ctx, &ts.Rows)
	return ts, errors.WithStack(err)
}

// RollBack undoes the most recently applied migration group. The returned
// group has a zero ID when nothing was applied.
func RollBack(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	var db *bun.DB

	app := &cli.App{
		Name:  "migrations",
		Usage: "manage the catalog database schema",
		Description: "Applies and rolls back the schema for franchises, items, orders, " +
			"affiliate links and sync runs, and reports how much each table holds.",
		Before: func(_ *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			db, err = database.New(cfg)
			return err
		},
		After: func(_ *cli.Context) error {
			if db == nil {
				return nil
			}
			return errors.WithStack(db.Close())
		},
		Commands: []*cli.Command{
			{
				Name:    "up",
				Aliases: []string{"migrate"},
				Usage:   "apply every pending migration as one group",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("Catalog schema is up to date")
						return nil
					}
					fmt.Printf("Applied %s\n", group)
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migration group, dropping the catalog tables it created",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "skip the row count check"},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						status, err := migrations.CurrentStatus(c.Context, db)
						if err != nil {
							return err
						}
						if rows := totalRows(status); rows > 0 {
							return errors.Errorf("catalog holds %d rows; rerun with --yes to roll back anyway", rows)
						}
					}

					group, err := migrations.RollBack(c.Context, db)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("Nothing to roll back")
						return nil
					}
					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "list applied migrations and the row count of every catalog table",
				Action: func(c *cli.Context) error {
					status, err := migrations.CurrentStatus(c.Context, db)
					if err != nil {
						return err
					}
					printStatus(status)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create an empty Go migration",
				ArgsUsage: "<words describing the change>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("a migration name is required")
					}
					name := strings.ToLower(strings.Join(c.Args().Slice(), "_"))

					migrator := migrate.NewMigrator(db, migrations.Migrations)
					mf, err := migrator.CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Printf("Created %s\n", mf.Path)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("migrations failed")
	}
}

func totalRows(status *migrations.Status) int {
	total := 0
	for _, table := range status.Tables {
		total += table.Rows
	}
	return total
}

func printStatus(status *migrations.Status) {
	fmt.Printf("Last group: %s\n", status.LastGroup)
	for _, name := range status.Applied {
		fmt.Printf("  applied  %s\n", name)
	}
	for _, name := range status.Unapplied {
		fmt.Printf("  pending  %s\n", name)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, table := range status.Tables {
		rows := "missing"
		if table.Exists {
			rows = fmt.Sprint(table.Rows)
		}
		fmt.Fprintf(w, "%s\t%s\n", table.Name, rows)
	}
	w.Flush()
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, "")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`

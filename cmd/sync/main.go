package main

import (
	"fmt"
	"os"

	"github.com/orderof/catalog/pkg/config"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/ingest"
	"github.com/orderof/catalog/pkg/migrations"
	"github.com/orderof/catalog/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	pipeline, closeCache, err := ingest.NewFromConfig(cfg, db)
	if err != nil {
		log.Err(err).Fatal("provider setup error")
	}

	franchiseCommand := func(name, usage, provider string) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: "<franchise name>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "franchise-id",
					Usage: "sync into an existing franchise instead of looking it up by name",
				},
			},
			Action: func(c *cli.Context) error {
				query := c.Args().First()
				if query == "" {
					return cli.Exit("a franchise name is required", 1)
				}
				if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
					return err
				}

				var id *string
				if c.IsSet("franchise-id") {
					v := c.String("franchise-id")
					id = &v
				}
				franchise, err := pipeline.ResolveFranchise(c.Context, provider, id, query)
				if err != nil {
					return err
				}

				run, err := pipeline.Sync(c.Context, provider, franchise.ID, query)
				if err != nil {
					return err
				}

				fmt.Printf("Synced %s (%s): %d candidates, %d items created, %d reused, order created: %t\n",
					franchise.Name, franchise.ID, run.Candidates, run.ItemsCreated, run.ItemsReused, run.OrderCreated)
				return nil
			},
		}
	}

	app := &cli.App{
		Name:        "sync",
		Usage:       "import franchises from TMDB and RAWG",
		Description: "Runs the same ingestion pipeline as the /admin/sync endpoints.",
		Commands: []*cli.Command{
			franchiseCommand("movies", "sync a movie franchise from TMDB", models.SyncProviderTMDBMovies),
			franchiseCommand("tv", "sync a TV franchise from TMDB", models.SyncProviderTMDBTV),
			franchiseCommand("games", "sync a game franchise from RAWG", models.SyncProviderRAWGGames),
			{
				Name:  "popular",
				Usage: "create and sync the popular franchises that aren't in the catalog yet",
				Action: func(c *cli.Context) error {
					if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
						return err
					}

					result, err := pipeline.SyncPopular(c.Context)
					if err != nil {
						return err
					}

					fmt.Printf("Synced %d of %d popular franchises (%d skipped, %d failed)\n",
						result.Synced, result.Attempted, result.Skipped, result.Failed)
					return nil
				},
			},
		},
	}

	err = app.Run(os.Args)
	if closeErr := closeCache(); closeErr != nil {
		log.Err(closeErr).Error("provider cache close error")
	}
	if closeErr := db.Close(); closeErr != nil {
		log.Err(closeErr).Error("database close error")
	}
	if err != nil {
		log.Err(err).Fatal("app run error")
	}
}

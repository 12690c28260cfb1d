// Package ingest pulls franchise items from the external providers into the
// catalog and builds the franchise's official viewing or playing order.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/orderof/catalog/pkg/franchises"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/orders"
	"github.com/orderof/catalog/pkg/providers"
	"github.com/orderof/catalog/pkg/syncruns"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

const (
	defaultCollectionProbeLimit = 5
	defaultProbeConcurrency     = 3

	// movieFallbackLimit is how many raw search results are kept when none of
	// the probed movies belongs to a collection.
	movieFallbackLimit = 5
	gameLimit          = 10
	// gameScanLimit bounds how far into the search results the series filter
	// looks for matching titles.
	gameScanLimit = 40
)

type Options struct {
	Movies providers.MovieProvider
	TV     providers.TVProvider
	Games  providers.GameProvider

	// CollectionProbeLimit is how many top movie search results have their
	// details fetched while looking for a collection.
	CollectionProbeLimit int
	// ProbeConcurrency bounds the number of detail requests in flight.
	ProbeConcurrency int
}

type Pipeline struct {
	db     *bun.DB
	movies providers.MovieProvider
	tv     providers.TVProvider
	games  providers.GameProvider

	collectionProbeLimit int
	probeConcurrency     int
}

func New(db *bun.DB, opts Options) *Pipeline {
	p := &Pipeline{
		db:                   db,
		movies:               opts.Movies,
		tv:                   opts.TV,
		games:                opts.Games,
		collectionProbeLimit: opts.CollectionProbeLimit,
		probeConcurrency:     opts.ProbeConcurrency,
	}
	if p.collectionProbeLimit <= 0 {
		p.collectionProbeLimit = defaultCollectionProbeLimit
	}
	if p.probeConcurrency <= 0 {
		p.probeConcurrency = defaultProbeConcurrency
	}
	return p
}

// orderPlan describes the order a sync creates when the franchise doesn't
// have one of that type yet.
type orderPlan struct {
	orderType   string
	name        string
	description string
	candidates  []providers.Candidate
}

// plan is everything a sync writes, gathered from the provider before the
// transaction is opened.
type plan struct {
	candidates []providers.Candidate
	order      *orderPlan
}

// SyncMovies imports the movies matching query into the franchise. When one
// of the top search results belongs to a collection, the whole collection is
// imported instead of the search results.
func (p *Pipeline) SyncMovies(ctx context.Context, franchiseID, query string) (*models.SyncRun, error) {
	return p.sync(ctx, models.SyncProviderTMDBMovies, franchiseID, query, p.planMovies)
}

// SyncTV imports the top TV search result into the franchise. Shows with more
// than one season also get a chronological season order.
func (p *Pipeline) SyncTV(ctx context.Context, franchiseID, query string) (*models.SyncRun, error) {
	return p.sync(ctx, models.SyncProviderTMDBTV, franchiseID, query, p.planTV)
}

// SyncGames imports the games whose titles contain query into the franchise.
func (p *Pipeline) SyncGames(ctx context.Context, franchiseID, query string) (*models.SyncRun, error) {
	return p.sync(ctx, models.SyncProviderRAWGGames, franchiseID, query, p.planGames)
}

// Sync runs the sync for the given provider name.
func (p *Pipeline) Sync(ctx context.Context, provider, franchiseID, query string) (*models.SyncRun, error) {
	switch provider {
	case models.SyncProviderTMDBMovies:
		return p.SyncMovies(ctx, franchiseID, query)
	case models.SyncProviderTMDBTV:
		return p.SyncTV(ctx, franchiseID, query)
	case models.SyncProviderRAWGGames:
		return p.SyncGames(ctx, franchiseID, query)
	}
	return nil, errors.Errorf("unknown sync provider %q", provider)
}

func (p *Pipeline) sync(ctx context.Context, provider, franchiseID, query string, planFn func(context.Context, string) plan) (*models.SyncRun, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	franchise, err := franchises.NewService(p.db).RetrieveFranchiseByID(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	pl := planFn(ctx, query)
	pl.candidates = dedupe(pl.candidates)
	if pl.order != nil {
		pl.order.candidates = dedupe(pl.order.candidates)
	}

	run := &models.SyncRun{
		FranchiseID: franchise.ID,
		Provider:    provider,
		Query:       query,
		Status:      models.SyncStatusCompleted,
		Candidates:  len(pl.candidates),
	}

	err = p.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return p.apply(ctx, tx, franchise.ID, pl, run)
	})
	run.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		// Nothing from the transaction survives a failure.
		run.Status = models.SyncStatusFailed
		run.ItemsCreated = 0
		run.ItemsReused = 0
		run.OrderCreated = false
		run.OrderItems = 0
		msg := err.Error()
		run.Error = &msg
	}

	if recordErr := syncruns.NewService(p.db).CreateSyncRun(ctx, run); recordErr != nil {
		log.Err(recordErr).Warn("failed to record sync run", logger.Data{"franchise_id": franchise.ID, "provider": provider})
	}

	data := logger.Data{
		"franchise_id":  franchise.ID,
		"provider":      provider,
		"query":         query,
		"candidates":    run.Candidates,
		"items_created": run.ItemsCreated,
		"items_reused":  run.ItemsReused,
		"order_created": run.OrderCreated,
		"duration_ms":   run.DurationMS,
	}
	if err != nil {
		log.Err(err).Error("sync failed", data)
		return run, err
	}
	log.Info("sync completed", data)

	run.Franchise = franchise
	return run, nil
}

// apply writes a plan with services bound to tx, recording counts on run.
func (p *Pipeline) apply(ctx context.Context, tx bun.Tx, franchiseID string, pl plan, run *models.SyncRun) error {
	itemService := items.NewService(tx)
	orderService := orders.NewService(tx)

	resolved := make(map[string]*models.Item, len(pl.candidates))
	for _, c := range pl.candidates {
		item, created, err := itemService.FindOrCreateItem(ctx, newItem(franchiseID, c))
		if err != nil {
			return errors.Wrapf(err, "failed to resolve item %q", c.Title)
		}
		if created {
			run.ItemsCreated++
		} else {
			run.ItemsReused++
		}
		resolved[c.ExternalID] = item
	}

	if pl.order == nil {
		return nil
	}

	order, created, err := orderService.FindOrCreateOrder(ctx, &models.Order{
		FranchiseID: franchiseID,
		OrderType:   pl.order.orderType,
		Name:        pl.order.name,
		Description: &pl.order.description,
		IsOfficial:  true,
	})
	if err != nil {
		return err
	}
	if !created {
		// Existing orders are never re-positioned.
		return nil
	}
	run.OrderCreated = true

	position := 0
	for _, c := range sortByReleaseDate(pl.order.candidates) {
		item, ok := resolved[c.ExternalID]
		if !ok {
			continue
		}
		position++
		err := orderService.CreateOrderItem(ctx, &models.OrderItem{
			OrderID:  order.ID,
			ItemID:   item.ID,
			Position: position,
		})
		if err != nil {
			return err
		}
	}
	run.OrderItems = position

	return nil
}

func (p *Pipeline) planMovies(ctx context.Context, query string) plan {
	results := providers.Take(p.movies.SearchMovies(ctx, query), max(p.collectionProbeLimit, movieFallbackLimit))

	candidates := []providers.Candidate{}
	if collectionID := p.findCollection(ctx, results); collectionID != "" {
		candidates = p.movies.Collection(ctx, collectionID)
	}
	if len(candidates) == 0 {
		candidates = results[:min(len(results), movieFallbackLimit)]
	}

	return releasePlan(candidates, "Movies in the order they were released")
}

func (p *Pipeline) planTV(ctx context.Context, query string) plan {
	top := providers.Take(p.tv.SearchTV(ctx, query), 1)
	if len(top) == 0 {
		return plan{}
	}
	show, ok := p.tv.TVDetails(ctx, top[0].ExternalID)
	if !ok {
		return plan{}
	}

	pl := plan{candidates: []providers.Candidate{show.Candidate}}
	if show.NumberOfSeasons > 1 {
		pl.order = &orderPlan{
			orderType:   models.OrderTypeChronological,
			name:        "Season Order",
			description: "Episodes/seasons in chronological order",
			candidates:  pl.candidates,
		}
	}
	return pl
}

func (p *Pipeline) planGames(ctx context.Context, query string) plan {
	results := providers.Take(p.games.SearchGames(ctx, query), gameScanLimit)

	candidates := seriesGames(query, results)
	if len(candidates) == 0 {
		candidates = results
	}
	candidates = candidates[:min(len(candidates), gameLimit)]

	return releasePlan(candidates, "Games in the order they were released")
}

func releasePlan(candidates []providers.Candidate, description string) plan {
	if len(candidates) == 0 {
		return plan{}
	}
	return plan{
		candidates: candidates,
		order: &orderPlan{
			orderType:   models.OrderTypeRelease,
			name:        "Release Order",
			description: description,
			candidates:  candidates,
		},
	}
}

// seriesGames keeps the games whose titles contain name, ignoring case.
func seriesGames(name string, games []providers.Candidate) []providers.Candidate {
	needle := strings.ToLower(name)
	out := []providers.Candidate{}
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Title), needle) {
			out = append(out, g)
		}
	}
	return out
}

func newItem(franchiseID string, c providers.Candidate) *models.Item {
	externalID := c.ExternalID
	return &models.Item{
		FranchiseID: franchiseID,
		Title:       c.Title,
		Description: c.Description,
		ReleaseDate: models.ParseDate(c.ReleaseDate),
		ImageURL:    c.ImageURL,
		ExternalID:  &externalID,
		APIMetadata: c.Metadata,
		Rating:      c.Rating,
	}
}

// defaultDescription is the description given to franchises a sync creates.
func defaultDescription(provider, name string) string {
	switch provider {
	case models.SyncProviderTMDBMovies:
		return fmt.Sprintf("Movie franchise: %s", name)
	case models.SyncProviderTMDBTV:
		return fmt.Sprintf("TV series franchise: %s", name)
	}
	return fmt.Sprintf("Game franchise: %s", name)
}

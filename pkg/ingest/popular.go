package ingest

import (
	"context"
	"fmt"

	"github.com/orderof/catalog/pkg/franchises"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/syncruns"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
)

const (
	syncPopularity    = 50
	popularPopularity = 100
	recentRunsLimit   = 10
)

var PopularMovieFranchises = []string{
	"Marvel Cinematic Universe",
	"Star Wars",
	"Harry Potter",
	"The Lord of the Rings",
	"Fast & Furious",
	"James Bond",
	"Mission: Impossible",
	"Jurassic Park",
	"Transformers",
	"X-Men",
}

var PopularGameFranchises = []string{
	"The Legend of Zelda",
	"Super Mario",
	"Call of Duty",
	"Grand Theft Auto",
	"The Elder Scrolls",
	"Final Fantasy",
	"Assassin's Creed",
	"Halo",
	"Pokemon",
	"The Witcher",
}

var PopularTVFranchises = []string{
	"Game of Thrones",
	"Breaking Bad",
	"The Walking Dead",
	"Stranger Things",
	"The Office",
	"Friends",
	"Marvel",
	"Star Trek",
	"Doctor Who",
	"Sherlock",
}

type providerInfo struct {
	category string
	label    string
}

var providerInfos = map[string]providerInfo{
	models.SyncProviderTMDBMovies: {models.CategoryMovies, "movie"},
	models.SyncProviderTMDBTV:     {models.CategorySeries, "TV"},
	models.SyncProviderRAWGGames:  {models.CategoryGames, "game"},
}

// ResolveFranchise returns the franchise a sync request targets. With an ID
// the franchise has to exist. Without one, the franchise is looked up by the
// name's slug and created when missing.
func (p *Pipeline) ResolveFranchise(ctx context.Context, provider string, id *string, name string) (*models.Franchise, error) {
	franchiseService := franchises.NewService(p.db)

	if id != nil && *id != "" {
		return franchiseService.RetrieveFranchiseByID(ctx, *id)
	}

	info, ok := providerInfos[provider]
	if !ok {
		return nil, errors.Errorf("unknown sync provider %q", provider)
	}
	franchise, created, err := franchiseService.FindOrCreateFranchise(ctx, &models.Franchise{
		Name:            name,
		Category:        info.category,
		Description:     pointerutil.String(defaultDescription(provider, name)),
		PopularityScore: syncPopularity,
	})
	if err != nil {
		return nil, err
	}
	if created {
		logger.FromContext(ctx).Info("created franchise for sync", logger.Data{"franchise_id": franchise.ID, "name": name})
	}
	return franchise, nil
}

type PopularResult struct {
	Attempted int `json:"total_attempted"`
	Synced    int `json:"synced"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// SyncPopular creates and syncs every popular franchise that isn't in the
// catalog yet. Franchises that already exist are left alone. A failed sync is
// counted and the rest still run.
func (p *Pipeline) SyncPopular(ctx context.Context) (*PopularResult, error) {
	log := logger.FromContext(ctx)
	franchiseService := franchises.NewService(p.db)
	result := &PopularResult{}

	batches := []struct {
		provider string
		names    []string
	}{
		{models.SyncProviderTMDBMovies, PopularMovieFranchises},
		{models.SyncProviderRAWGGames, PopularGameFranchises},
		{models.SyncProviderTMDBTV, PopularTVFranchises},
	}

	for _, batch := range batches {
		info := providerInfos[batch.provider]
		for _, name := range batch.names {
			if err := ctx.Err(); err != nil {
				return result, errors.WithStack(err)
			}
			result.Attempted++

			franchise, created, err := franchiseService.FindOrCreateFranchise(ctx, &models.Franchise{
				Name:            name,
				Category:        info.category,
				Description:     pointerutil.String(fmt.Sprintf("Popular %s franchise: %s", info.label, name)),
				PopularityScore: popularPopularity,
			})
			if err != nil {
				log.Err(err).Warn("failed to create popular franchise", logger.Data{"name": name})
				result.Failed++
				continue
			}
			if !created {
				result.Skipped++
				continue
			}

			if _, err := p.Sync(ctx, batch.provider, franchise.ID, name); err != nil {
				log.Err(err).Warn("failed to sync popular franchise", logger.Data{"name": name, "provider": batch.provider})
				result.Failed++
				continue
			}
			result.Synced++
		}
	}

	return result, nil
}

type Status struct {
	TotalFranchises int               `json:"total_franchises"`
	TotalItems      int               `json:"total_items"`
	ByCategory      map[string]int    `json:"by_category"`
	RecentRuns      []*models.SyncRun `json:"recent_runs"`
}

// Status summarizes the catalog and the most recent syncs.
func (p *Pipeline) Status(ctx context.Context) (*Status, error) {
	byCategory, err := franchises.NewService(p.db).CountFranchisesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range byCategory {
		total += count
	}

	totalItems, err := items.NewService(p.db).CountItems(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := syncruns.NewService(p.db).ListSyncRuns(ctx, syncruns.ListSyncRunsOptions{
		Limit: pointerutil.Int(recentRunsLimit),
	})
	if err != nil {
		return nil, err
	}

	return &Status{
		TotalFranchises: total,
		TotalItems:      totalItems,
		ByCategory:      byCategory,
		RecentRuns:      runs,
	}, nil
}

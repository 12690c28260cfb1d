package affiliates

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/franchises"
	"github.com/orderof/catalog/pkg/items"
	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// StatsPlatforms are the platforms reported in the stats breakdown.
var StatsPlatforms = []string{
	models.PlatformAmazon,
	models.PlatformSpotify,
	models.PlatformITunes,
	models.PlatformSteam,
	models.PlatformOther,
}

type ListLinksOptions struct {
	ItemID     *string
	ActiveOnly bool
}

type UpdateLinkOptions struct {
	Columns []string
}

type GenerateOptions struct {
	FranchiseID string
	// Tags overrides the default affiliate tag per region.
	Tags map[string]string
}

type Stats struct {
	TotalLinks        int            `json:"total_links"`
	ActiveLinks       int            `json:"active_links"`
	InactiveLinks     int            `json:"inactive_links"`
	PlatformBreakdown map[string]int `json:"platform_breakdown"`
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// CreateLink inserts a link. When no tag is given, the default tag for the
// link's platform and region is recorded.
func (svc *Service) CreateLink(ctx context.Context, link *models.AffiliateLink) error {
	now := time.Now()
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = link.CreatedAt

	if link.AffiliateTag == nil && link.Region != nil {
		if tag, ok := DefaultTag(link.Platform, *link.Region); ok {
			link.AffiliateTag = &tag
		}
	}

	_, err := svc.db.
		NewInsert().
		Model(link).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLink(ctx context.Context, id string) (*models.AffiliateLink, error) {
	link := &models.AffiliateLink{}
	err := svc.db.
		NewSelect().
		Model(link).
		Where("al.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Affiliate link")
		}
		return nil, errors.WithStack(err)
	}
	return link, nil
}

func (svc *Service) ListLinks(ctx context.Context, opts ListLinksOptions) ([]*models.AffiliateLink, error) {
	links := []*models.AffiliateLink{}

	q := svc.db.
		NewSelect().
		Model(&links).
		Order("al.created_at ASC", "al.id ASC")

	if opts.ItemID != nil {
		q = q.Where("al.item_id = ?", *opts.ItemID)
	}
	if opts.ActiveOnly {
		q = q.Where("al.is_active = ?", true)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return links, nil
}

func (svc *Service) UpdateLink(ctx context.Context, link *models.AffiliateLink, opts UpdateLinkOptions) error {
	link.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(link).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Affiliate link")
	}
	return nil
}

func (svc *Service) DeleteLink(ctx context.Context, id string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.AffiliateLink)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Affiliate link")
	}
	return nil
}

// GenerateForFranchise creates an Amazon search link in every generated
// region for each titled item of the franchise. Calling it again creates
// another set of links.
func (svc *Service) GenerateForFranchise(ctx context.Context, opts GenerateOptions) ([]*models.AffiliateLink, error) {
	created := []*models.AffiliateLink{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		franchise, err := franchises.NewService(tx).RetrieveFranchiseByID(ctx, opts.FranchiseID)
		if err != nil {
			return err
		}

		franchiseItems, err := items.NewService(tx).ListItems(ctx, items.ListItemsOptions{FranchiseID: &franchise.ID})
		if err != nil {
			return err
		}

		linkService := NewService(tx)
		for _, item := range franchiseItems {
			if item.Title == "" {
				continue
			}
			for _, region := range GeneratedRegions {
				tag := opts.Tags[region]
				if tag == "" {
					tag, _ = DefaultTag(models.PlatformAmazon, region)
				}
				u, err := SearchURL(models.PlatformAmazon, region, item.Title, tag)
				if err != nil {
					return err
				}

				link := &models.AffiliateLink{
					ItemID:       item.ID,
					Platform:     models.PlatformAmazon,
					Region:       &region,
					URL:          u,
					AffiliateTag: &tag,
					IsActive:     true,
				}
				if currency, ok := Currencies[region]; ok {
					link.Currency = &currency
				}
				if err := linkService.CreateLink(ctx, link); err != nil {
					return err
				}
				created = append(created, link)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return created, nil
}

// BulkCreate creates every link that names a platform, a URL and an existing
// item. Other entries are skipped.
func (svc *Service) BulkCreate(ctx context.Context, links []*models.AffiliateLink) ([]*models.AffiliateLink, error) {
	created := []*models.AffiliateLink{}
	log := logger.FromContext(ctx)

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		itemService := items.NewService(tx)
		linkService := NewService(tx)

		for i, link := range links {
			if link.ItemID == "" || link.Platform == "" || link.URL == "" {
				log.Debug("skipping incomplete affiliate link", logger.Data{"index": i})
				continue
			}
			if _, err := itemService.RetrieveItemByID(ctx, link.ItemID); err != nil {
				if errors.Is(err, errcodes.NotFound("Item")) {
					log.Debug("skipping affiliate link for missing item", logger.Data{"index": i, "item_id": link.ItemID})
					continue
				}
				return err
			}
			if err := linkService.CreateLink(ctx, link); err != nil {
				return err
			}
			created = append(created, link)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return created, nil
}

func (svc *Service) Stats(ctx context.Context) (*Stats, error) {
	var rows []struct {
		Platform string `bun:"platform"`
		IsActive bool   `bun:"is_active"`
		Count    int    `bun:"count"`
	}
	err := svc.db.
		NewSelect().
		Model((*models.AffiliateLink)(nil)).
		Column("platform", "is_active").
		ColumnExpr("COUNT(*) AS count").
		Group("platform", "is_active").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats := &Stats{PlatformBreakdown: make(map[string]int, len(StatsPlatforms))}
	for _, platform := range StatsPlatforms {
		stats.PlatformBreakdown[platform] = 0
	}
	for _, row := range rows {
		stats.TotalLinks += row.Count
		if !row.IsActive {
			continue
		}
		stats.ActiveLinks += row.Count
		if _, ok := stats.PlatformBreakdown[row.Platform]; ok {
			stats.PlatformBreakdown[row.Platform] += row.Count
		}
	}
	stats.InactiveLinks = stats.TotalLinks - stats.ActiveLinks
	return stats, nil
}

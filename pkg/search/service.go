package search

import (
	"context"

	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type SearchOptions struct {
	Query    string
	Category *string
	Limit    int
	Offset   int
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// Search runs the franchise and item searches for the same query. The two
// result sets are paginated independently.
func (svc *Service) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	franchises, err := svc.SearchFranchises(ctx, opts)
	if err != nil {
		return nil, err
	}
	items, err := svc.SearchItems(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &SearchResponse{
		Query:      opts.Query,
		Category:   opts.Category,
		Franchises: franchises,
		Items:      items,
	}, nil
}

// SearchFranchises matches the query against franchise names and
// descriptions, most popular first.
func (svc *Service) SearchFranchises(ctx context.Context, opts SearchOptions) ([]*models.Franchise, error) {
	franchises := []*models.Franchise{}
	pattern := ContainsPattern(opts.Query)
	if pattern == "" {
		return franchises, nil
	}

	q := svc.db.
		NewSelect().
		Model(&franchises).
		Where(`f.search_text LIKE ? ESCAPE '\'`, pattern).
		Order("f.popularity_score DESC", "f.name ASC").
		Limit(opts.Limit).
		Offset(opts.Offset)

	if opts.Category != nil && *opts.Category != "" {
		q = q.Where("f.category = ?", *opts.Category)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return franchises, nil
}

// SearchItems matches the query against item titles and descriptions. The
// category filter applies to the item's franchise.
func (svc *Service) SearchItems(ctx context.Context, opts SearchOptions) ([]*models.Item, error) {
	items := []*models.Item{}
	pattern := ContainsPattern(opts.Query)
	if pattern == "" {
		return items, nil
	}

	q := svc.db.
		NewSelect().
		Model(&items).
		Relation("Franchise").
		Where(`i.search_text LIKE ? ESCAPE '\'`, pattern).
		Order("i.title ASC", "i.id ASC").
		Limit(opts.Limit).
		Offset(opts.Offset)

	if opts.Category != nil && *opts.Category != "" {
		q = q.Where("franchise.category = ?", *opts.Category)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

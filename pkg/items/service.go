package items

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/slugs"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveItemOptions struct {
	ID          *string
	FranchiseID *string
	ExternalID  *string
}

type ListItemsOptions struct {
	FranchiseID *string
	Limit       *int
	Offset      *int
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateItem(ctx context.Context, item *models.Item) error {
	now := time.Now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = item.CreatedAt
	if item.Slug == "" {
		item.Slug = slugs.Slugify(item.Title)
	}
	// Titles made only of punctuation still need a slug.
	if item.Slug == "" {
		item.Slug = item.ID
	}

	_, err := svc.db.
		NewInsert().
		Model(item).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("Item with this external ID already exists in the franchise.")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveItem(ctx context.Context, opts RetrieveItemOptions) (*models.Item, error) {
	item := &models.Item{}

	q := svc.db.
		NewSelect().
		Model(item)

	if opts.ID != nil {
		q = q.Where("i.id = ?", *opts.ID)
	}
	if opts.FranchiseID != nil {
		q = q.Where("i.franchise_id = ?", *opts.FranchiseID)
	}
	if opts.ExternalID != nil {
		q = q.Where("i.external_id = ?", *opts.ExternalID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Item")
		}
		return nil, errors.WithStack(err)
	}

	return item, nil
}

// RetrieveItemByID retrieves an item by its ID.
func (svc *Service) RetrieveItemByID(ctx context.Context, id string) (*models.Item, error) {
	return svc.RetrieveItem(ctx, RetrieveItemOptions{ID: &id})
}

// FindOrCreateItem returns the franchise's item with the template's external
// ID, creating it from the template when there is none. Existing items are
// returned untouched. The second return value reports whether it was created.
func (svc *Service) FindOrCreateItem(ctx context.Context, template *models.Item) (*models.Item, bool, error) {
	if template.ExternalID == nil || *template.ExternalID == "" {
		return nil, false, errors.New("item external ID cannot be empty")
	}
	opts := RetrieveItemOptions{
		FranchiseID: &template.FranchiseID,
		ExternalID:  template.ExternalID,
	}

	item, err := svc.RetrieveItem(ctx, opts)
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, errcodes.NotFound("Item")) {
		return nil, false, err
	}

	err = svc.CreateItem(ctx, template)
	if err != nil {
		// Handle race condition: a concurrent sync inserted the same item
		// between our retrieve and create.
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) && codeErr.Code == "conflict" {
			item, err = svc.RetrieveItem(ctx, opts)
			return item, false, err
		}
		return nil, false, err
	}
	return template, true, nil
}

// ListItems lists items by release date, oldest first. Undated items come
// before dated ones.
func (svc *Service) ListItems(ctx context.Context, opts ListItemsOptions) ([]*models.Item, error) {
	items := []*models.Item{}

	q := svc.db.
		NewSelect().
		Model(&items).
		OrderExpr("i.release_date ASC NULLS FIRST").
		Order("i.created_at ASC", "i.id ASC")

	if opts.FranchiseID != nil {
		q = q.Where("i.franchise_id = ?", *opts.FranchiseID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

// CountItems returns the number of items across all franchises.
func (svc *Service) CountItems(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Item)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}

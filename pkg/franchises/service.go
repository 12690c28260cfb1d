package franchises

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/search"
	"github.com/orderof/catalog/pkg/slugs"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveFranchiseOptions struct {
	ID   *string
	Slug *string
}

type ListFranchisesOptions struct {
	Limit    *int
	Offset   *int
	Category *string
	Search   *string

	includeTotal bool
}

type UpdateFranchiseOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

// NewService returns a Service that runs its queries against db, which is
// either the database itself or a transaction.
func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateFranchise(ctx context.Context, franchise *models.Franchise) error {
	now := time.Now()
	if franchise.ID == "" {
		franchise.ID = uuid.NewString()
	}
	if franchise.CreatedAt.IsZero() {
		franchise.CreatedAt = now
	}
	franchise.UpdatedAt = franchise.CreatedAt

	if franchise.Slug == "" {
		franchise.Slug = slugs.Slugify(franchise.Name)
	}
	if franchise.Slug == "" {
		return errcodes.ValidationError(`"name" must contain at least one letter or digit`)
	}

	_, err := svc.db.
		NewInsert().
		Model(franchise).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("Franchise with this slug already exists.")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveFranchise(ctx context.Context, opts RetrieveFranchiseOptions) (*models.Franchise, error) {
	franchise := &models.Franchise{}

	q := svc.db.
		NewSelect().
		Model(franchise)

	if opts.ID != nil {
		q = q.Where("f.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("f.slug = ?", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Franchise")
		}
		return nil, errors.WithStack(err)
	}

	return franchise, nil
}

// RetrieveFranchiseByID retrieves a franchise by its ID.
func (svc *Service) RetrieveFranchiseByID(ctx context.Context, id string) (*models.Franchise, error) {
	return svc.RetrieveFranchise(ctx, RetrieveFranchiseOptions{ID: &id})
}

// FindOrCreateFranchise returns the franchise whose slug matches the
// template's name, creating it from the template when there is none. The
// second return value reports whether it was created.
func (svc *Service) FindOrCreateFranchise(ctx context.Context, template *models.Franchise) (*models.Franchise, bool, error) {
	slug := template.Slug
	if slug == "" {
		slug = slugs.Slugify(template.Name)
	}

	franchise, err := svc.RetrieveFranchise(ctx, RetrieveFranchiseOptions{Slug: &slug})
	if err == nil {
		return franchise, false, nil
	}
	if !errors.Is(err, errcodes.NotFound("Franchise")) {
		return nil, false, err
	}

	template.Slug = slug
	err = svc.CreateFranchise(ctx, template)
	if err != nil {
		// Another request created it between the lookup and the insert.
		if errors.Is(err, errcodes.Conflict("Franchise with this slug already exists.")) {
			franchise, err = svc.RetrieveFranchise(ctx, RetrieveFranchiseOptions{Slug: &slug})
			return franchise, false, err
		}
		return nil, false, err
	}
	return template, true, nil
}

func (svc *Service) ListFranchises(ctx context.Context, opts ListFranchisesOptions) ([]*models.Franchise, error) {
	f, _, err := svc.listFranchisesWithTotal(ctx, opts)
	return f, errors.WithStack(err)
}

func (svc *Service) ListFranchisesWithTotal(ctx context.Context, opts ListFranchisesOptions) ([]*models.Franchise, int, error) {
	opts.includeTotal = true
	return svc.listFranchisesWithTotal(ctx, opts)
}

func (svc *Service) listFranchisesWithTotal(ctx context.Context, opts ListFranchisesOptions) ([]*models.Franchise, int, error) {
	franchises := []*models.Franchise{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&franchises).
		Order("f.popularity_score DESC", "f.name ASC")

	if opts.Category != nil && *opts.Category != "" {
		q = q.Where("f.category = ?", *opts.Category)
	}
	if opts.Search != nil {
		if pattern := search.ContainsPattern(*opts.Search); pattern != "" {
			q = q.Where(`f.search_text LIKE ? ESCAPE '\'`, pattern)
		}
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return franchises, total, nil
}

// UpdateFranchise writes the given columns. updated_at is always refreshed,
// even when no other column changed.
func (svc *Service) UpdateFranchise(ctx context.Context, franchise *models.Franchise, opts UpdateFranchiseOptions) error {
	franchise.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")
	if slices.Contains(columns, "name") || slices.Contains(columns, "description") {
		columns = append(columns, "search_text")
	}

	res, err := svc.db.
		NewUpdate().
		Model(franchise).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Franchise")
	}
	return nil
}

// CountFranchisesByCategory returns the number of franchises in every known
// category, including the ones that have none.
func (svc *Service) CountFranchisesByCategory(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Category string `bun:"category"`
		Count    int    `bun:"count"`
	}
	err := svc.db.
		NewSelect().
		Model((*models.Franchise)(nil)).
		Column("category").
		ColumnExpr("COUNT(*) AS count").
		Group("category").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[string]int, len(models.Categories))
	for _, category := range models.Categories {
		counts[category] = 0
	}
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

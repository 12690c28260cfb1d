package syncruns

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListSyncRunsOptions struct {
	Limit       *int
	Offset      *int
	FranchiseID *string
	Statuses    []string

	includeTotal bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(run).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveSyncRun(ctx context.Context, id string) (*models.SyncRun, error) {
	run := &models.SyncRun{}

	err := svc.db.
		NewSelect().
		Model(run).
		Relation("Franchise").
		Where("sr.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Sync run")
		}
		return nil, errors.WithStack(err)
	}

	return run, nil
}

func (svc *Service) ListSyncRuns(ctx context.Context, opts ListSyncRunsOptions) ([]*models.SyncRun, error) {
	r, _, err := svc.listSyncRunsWithTotal(ctx, opts)
	return r, errors.WithStack(err)
}

func (svc *Service) ListSyncRunsWithTotal(ctx context.Context, opts ListSyncRunsOptions) ([]*models.SyncRun, int, error) {
	opts.includeTotal = true
	return svc.listSyncRunsWithTotal(ctx, opts)
}

// listSyncRunsWithTotal lists the most recent runs first.
func (svc *Service) listSyncRunsWithTotal(ctx context.Context, opts ListSyncRunsOptions) ([]*models.SyncRun, int, error) {
	runs := []*models.SyncRun{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&runs).
		Relation("Franchise").
		Order("sr.created_at DESC", "sr.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.FranchiseID != nil {
		q = q.Where("sr.franchise_id = ?", *opts.FranchiseID)
	}
	if len(opts.Statuses) > 0 {
		q = q.Where("sr.status IN (?)", bun.In(opts.Statuses))
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return runs, total, nil
}

package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderof/catalog/pkg/database"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveOrderOptions struct {
	ID          *string
	FranchiseID *string
	OrderType   *string

	// WithItems loads the order's items, their positions and their active
	// affiliate links.
	WithItems bool
}

type ListOrdersOptions struct {
	FranchiseID *string
	WithItems   bool
}

type AddItemOptions struct {
	OrderID    string
	ItemID     string
	Position   int
	Notes      *string
	IsOptional bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(order).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict(fmt.Sprintf("Order of type %q already exists for this franchise.", order.OrderType))
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveOrder(ctx context.Context, opts RetrieveOrderOptions) (*models.Order, error) {
	order := &models.Order{}

	q := svc.db.
		NewSelect().
		Model(order)

	if opts.ID != nil {
		q = q.Where("o.id = ?", *opts.ID)
	}
	if opts.FranchiseID != nil {
		q = q.Where("o.franchise_id = ?", *opts.FranchiseID)
	}
	if opts.OrderType != nil {
		q = q.Where("o.order_type = ?", *opts.OrderType)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Order")
		}
		return nil, errors.WithStack(err)
	}

	if opts.WithItems {
		if err := svc.loadItems(ctx, []*models.Order{order}); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// FindOrCreateOrder returns the franchise's order of the template's type,
// creating it from the template when there is none. The second return value
// reports whether it was created.
func (svc *Service) FindOrCreateOrder(ctx context.Context, template *models.Order) (*models.Order, bool, error) {
	opts := RetrieveOrderOptions{
		FranchiseID: &template.FranchiseID,
		OrderType:   &template.OrderType,
	}

	order, err := svc.RetrieveOrder(ctx, opts)
	if err == nil {
		return order, false, nil
	}
	if !errors.Is(err, errcodes.NotFound("Order")) {
		return nil, false, err
	}

	err = svc.CreateOrder(ctx, template)
	if err != nil {
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) && codeErr.Code == "conflict" {
			order, err = svc.RetrieveOrder(ctx, opts)
			return order, false, err
		}
		return nil, false, err
	}
	return template, true, nil
}

func (svc *Service) ListOrders(ctx context.Context, opts ListOrdersOptions) ([]*models.Order, error) {
	orders := []*models.Order{}

	q := svc.db.
		NewSelect().
		Model(&orders).
		Order("o.created_at ASC", "o.order_type ASC")

	if opts.FranchiseID != nil {
		q = q.Where("o.franchise_id = ?", *opts.FranchiseID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.WithItems {
		if err := svc.loadItems(ctx, orders); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// loadItems fills in each order's items sorted by position, with only the
// active affiliate links of every item.
func (svc *Service) loadItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*models.Order, len(orders))
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		o.OrderItems = []*models.OrderItem{}
		byID[o.ID] = o
		orderIDs = append(orderIDs, o.ID)
	}

	orderItems := []*models.OrderItem{}
	err := svc.db.
		NewSelect().
		Model(&orderItems).
		Relation("Item").
		Where("oi.order_id IN (?)", bun.In(orderIDs)).
		Order("oi.order_id ASC", "oi.position ASC").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	itemIDs := make([]string, 0, len(orderItems))
	for _, oi := range orderItems {
		byID[oi.OrderID].OrderItems = append(byID[oi.OrderID].OrderItems, oi)
		if oi.Item != nil {
			itemIDs = append(itemIDs, oi.ItemID)
		}
	}

	if len(itemIDs) > 0 {
		links := []*models.AffiliateLink{}
		err = svc.db.
			NewSelect().
			Model(&links).
			Where("al.item_id IN (?)", bun.In(itemIDs)).
			Where("al.is_active = ?", true).
			Order("al.created_at ASC", "al.id ASC").
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		linksByItem := make(map[string][]*models.AffiliateLink)
		for _, link := range links {
			linksByItem[link.ItemID] = append(linksByItem[link.ItemID], link)
		}
		for _, oi := range orderItems {
			if oi.Item == nil {
				continue
			}
			oi.Item.AffiliateLinks = linksByItem[oi.ItemID]
			if oi.Item.AffiliateLinks == nil {
				oi.Item.AffiliateLinks = []*models.AffiliateLink{}
			}
		}
	}

	for _, o := range orders {
		o.FlattenItems()
	}
	return nil
}

// CreateOrderItem inserts a position without checking the order or item; the
// ingestion pipeline uses it after resolving both itself.
func (svc *Service) CreateOrderItem(ctx context.Context, orderItem *models.OrderItem) error {
	now := time.Now()
	if orderItem.ID == "" {
		orderItem.ID = uuid.NewString()
	}
	if orderItem.CreatedAt.IsZero() {
		orderItem.CreatedAt = now
	}
	orderItem.UpdatedAt = orderItem.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(orderItem).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict(fmt.Sprintf("Position %d is already taken in this order.", orderItem.Position))
		}
		return errors.WithStack(err)
	}
	return nil
}

// AddItem places an item of the order's franchise at the given position.
func (svc *Service) AddItem(ctx context.Context, opts AddItemOptions) (*models.OrderItem, error) {
	order, err := svc.RetrieveOrder(ctx, RetrieveOrderOptions{ID: &opts.OrderID})
	if err != nil {
		return nil, err
	}

	item := &models.Item{}
	err = svc.db.
		NewSelect().
		Model(item).
		Where("i.id = ?", opts.ItemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Item")
		}
		return nil, errors.WithStack(err)
	}
	if item.FranchiseID != order.FranchiseID {
		return nil, errcodes.ValidationError("Item belongs to a different franchise than the order.")
	}

	orderItem := &models.OrderItem{
		OrderID:    order.ID,
		ItemID:     item.ID,
		Position:   opts.Position,
		Notes:      opts.Notes,
		IsOptional: opts.IsOptional,
	}
	if err := svc.CreateOrderItem(ctx, orderItem); err != nil {
		return nil, err
	}
	orderItem.Item = item
	return orderItem, nil
}

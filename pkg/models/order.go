package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	OrderTypeRelease       = "release"
	OrderTypeChronological = "chronological"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          string    `bun:",pk" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FranchiseID string    `bun:",nullzero" json:"franchise_id"`
	OrderType   string    `bun:",nullzero" json:"order_type"`
	Name        string    `bun:",nullzero" json:"name"`
	Description *string   `json:"description"`
	IsOfficial  bool      `json:"is_official"`

	OrderItems []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"-"`
	// Items is OrderItems flattened onto their items, sorted by position.
	Items []*OrderedItem `bun:"-" json:"items,omitempty"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID         string    `bun:",pk" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OrderID    string    `bun:",nullzero" json:"order_id"`
	ItemID     string    `bun:",nullzero" json:"item_id"`
	Item       *Item     `bun:"rel:belongs-to,join:item_id=id" json:"item,omitempty"`
	Position   int       `json:"position"`
	Notes      *string   `json:"notes"`
	IsOptional bool      `json:"is_optional"`
}

// OrderedItem is an item as it appears inside an order.
type OrderedItem struct {
	*Item
	Position   int     `json:"position"`
	Notes      *string `json:"notes"`
	IsOptional bool    `json:"is_optional"`
}

// FlattenItems fills Items from OrderItems. OrderItems without a loaded Item
// are skipped.
func (o *Order) FlattenItems() {
	o.Items = make([]*OrderedItem, 0, len(o.OrderItems))
	for _, oi := range o.OrderItems {
		if oi.Item == nil {
			continue
		}
		o.Items = append(o.Items, &OrderedItem{
			Item:       oi.Item,
			Position:   oi.Position,
			Notes:      oi.Notes,
			IsOptional: oi.IsOptional,
		})
	}
}

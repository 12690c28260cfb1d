package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          string     `bun:",pk" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FranchiseID string     `bun:",nullzero" json:"franchise_id"`
	Franchise   *Franchise `bun:"rel:belongs-to,join:franchise_id=id" json:"franchise,omitempty"`
	Title       string     `bun:",nullzero" json:"title"`
	Slug        string     `bun:",nullzero" json:"slug"`
	Description *string    `json:"description"`
	ReleaseDate *Date      `bun:"type:date" json:"release_date"`
	ImageURL    *string    `json:"image_url"`
	// ExternalID is the provider's identifier. It's unique per franchise when
	// set, and items created by hand leave it empty.
	ExternalID  *string    `json:"external_id"`
	APIMetadata Metadata   `bun:"type:text" json:"api_metadata"`
	Rating      *float64   `json:"rating"`
	SearchText  string     `json:"-"`

	AffiliateLinks []*AffiliateLink `bun:"rel:has-many,join:id=item_id" json:"affiliate_links,omitempty"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	PlatformAmazon  = "amazon"
	PlatformSpotify = "spotify"
	PlatformITunes  = "itunes"
	PlatformSteam   = "steam"
	PlatformOther   = "other"
)

const (
	RegionUK = "uk"
	RegionUS = "us"
)

type AffiliateLink struct {
	bun.BaseModel `bun:"table:affiliate_links,alias:al"`

	ID           string              `bun:",pk" json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	ItemID       string              `bun:",nullzero" json:"item_id"`
	Item         *Item               `bun:"rel:belongs-to,join:item_id=id" json:"item,omitempty"`
	Platform     string              `bun:",nullzero" json:"platform"`
	Region       *string             `json:"region"`
	URL          string              `bun:",nullzero" json:"url"`
	AffiliateTag *string             `json:"affiliate_tag"`
	Price        decimal.NullDecimal `bun:"type:text" json:"price"`
	Currency     *string             `json:"currency"`
	IsActive     bool                `json:"is_active"`
}

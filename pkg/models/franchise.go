package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CategoryMovies = "movies"
	CategorySeries = "series"
	CategoryGames  = "games"
	CategoryBooks  = "books"
	CategoryMusic  = "music"
	CategoryCars   = "cars"
	CategoryAnime  = "anime"
	CategoryOther  = "other"
)

// Categories lists every category in the order they're reported by the sync
// status endpoint.
var Categories = []string{
	CategoryMovies,
	CategorySeries,
	CategoryGames,
	CategoryBooks,
	CategoryMusic,
	CategoryCars,
	CategoryAnime,
	CategoryOther,
}

type Franchise struct {
	bun.BaseModel `bun:"table:franchises,alias:f"`

	ID              string    `bun:",pk" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `bun:",nullzero" json:"name"`
	Slug            string    `bun:",nullzero" json:"slug"`
	Category        string    `bun:",nullzero" json:"category"`
	Description     *string   `json:"description"`
	ImageURL        *string   `json:"image_url"`
	PopularityScore int       `json:"popularity_score"`
	SearchText      string    `json:"-"`

	Items  []*Item  `bun:"rel:has-many,join:id=franchise_id" json:"items,omitempty"`
	Orders []*Order `bun:"rel:has-many,join:id=franchise_id" json:"orders,omitempty"`
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SyncProviderTMDBMovies = "tmdb_movies"
	SyncProviderTMDBTV     = "tmdb_tv"
	SyncProviderRAWGGames  = "rawg_games"
)

const (
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncRun records the outcome of syncing one franchise from one provider.
type SyncRun struct {
	bun.BaseModel `bun:"table:sync_runs,alias:sr"`

	ID           string     `bun:",pk" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	FranchiseID  string     `bun:",nullzero" json:"franchise_id"`
	Franchise    *Franchise `bun:"rel:belongs-to,join:franchise_id=id" json:"franchise,omitempty"`
	Provider     string     `bun:",nullzero" json:"provider"`
	Query        string     `bun:",nullzero" json:"query"`
	Status       string     `bun:",nullzero" json:"status"`
	Candidates   int        `json:"candidates"`
	ItemsCreated int        `json:"items_created"`
	ItemsReused  int        `json:"items_reused"`
	OrderCreated bool       `json:"order_created"`
	OrderItems   int        `json:"order_items"`
	Error        *string    `json:"error"`
	DurationMS   int64      `bun:"duration_ms" json:"duration_ms"`
}

package testutils

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// InsertAfterMiss is a query hook that runs Insert once, right after the
// first select against Table that found no rows. It lets tests land a
// competing row between a lookup and the insert that follows it.
type InsertAfterMiss struct {
	Table  string
	Insert func(ctx context.Context)

	fired atomic.Bool
}

var _ bun.QueryHook = (*InsertAfterMiss)(nil)

func (h *InsertAfterMiss) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *InsertAfterMiss) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !errors.Is(event.Err, sql.ErrNoRows) {
		return
	}
	if !strings.Contains(event.Query, `FROM "`+h.Table+`"`) {
		return
	}
	if h.fired.Swap(true) {
		return
	}
	h.Insert(ctx)
}

// Fired reports whether Insert has run.
func (h *InsertAfterMiss) Fired() bool {
	return h.fired.Load()
}

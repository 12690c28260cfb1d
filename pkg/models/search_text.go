package models

import (
	"context"
	"strings"

	"github.com/uptrace/bun"
)

// FoldSearchText lower-cases a row's searchable fields into the value stored
// in its search_text column. SQLite's LIKE only folds ASCII, so matching
// happens against this column with a pattern folded the same way.
func FoldSearchText(name string, description *string) string {
	text := name
	if description != nil && *description != "" {
		text += "\n" + *description
	}
	return strings.ToLower(text)
}

var (
	_ bun.BeforeAppendModelHook = (*Franchise)(nil)
	_ bun.BeforeAppendModelHook = (*Item)(nil)
)

func (f *Franchise) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		f.SearchText = FoldSearchText(f.Name, f.Description)
	}
	return nil
}

func (i *Item) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		i.SearchText = FoldSearchText(i.Title, i.Description)
	}
	return nil
}

// Package providers holds the shared plumbing for the external metadata
// services that catalog ingestion pulls from.
package providers

import (
	"context"
	"iter"

	"github.com/orderof/catalog/pkg/models"
)

// Candidate is a single remote record that may become an item.
type Candidate struct {
	ExternalID string
	Title      string
	// ReleaseDate is the provider's raw date string. It may be empty or
	// malformed.
	ReleaseDate string
	ImageURL    *string
	Description *string
	Rating      *float64
	Metadata    models.Metadata
}

// Movie is a movie's full detail record.
type Movie struct {
	Candidate
	// CollectionID is empty when the movie isn't part of a collection.
	CollectionID string
}

// Show is a TV show's full detail record.
type Show struct {
	Candidate
	NumberOfSeasons int
}

// MovieProvider looks up movies and the collections they belong to. Like the
// other providers, every lookup fails softly: errors are logged and reported
// as an empty result, so callers can't tell "nothing found" from "provider
// down".
type MovieProvider interface {
	SearchMovies(ctx context.Context, query string) iter.Seq[Candidate]
	MovieDetails(ctx context.Context, id string) (*Movie, bool)
	Collection(ctx context.Context, id string) []Candidate
}

type TVProvider interface {
	SearchTV(ctx context.Context, query string) iter.Seq[Candidate]
	TVDetails(ctx context.Context, id string) (*Show, bool)
}

type GameProvider interface {
	SearchGames(ctx context.Context, query string) iter.Seq[Candidate]
}

// Paginate lazily yields the candidates of each page, starting at page 1. It
// stops when fetch reports there are no more pages, when the consumer stops,
// or after maxPages pages.
func Paginate(maxPages int, fetch func(page int) (candidates []Candidate, more bool)) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for page := 1; maxPages <= 0 || page <= maxPages; page++ {
			candidates, more := fetch(page)
			for _, c := range candidates {
				if !yield(c) {
					return
				}
			}
			if !more {
				return
			}
		}
	}
}

// Take collects at most n candidates from seq.
func Take(seq iter.Seq[Candidate], n int) []Candidate {
	out := []Candidate{}
	if n <= 0 {
		return out
	}
	for c := range seq {
		out = append(out, c)
		if len(out) >= n {
			break
		}
	}
	return out
}

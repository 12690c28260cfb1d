package ingest

import (
	"context"
	"slices"
	"strings"

	"github.com/orderof/catalog/pkg/models"
	"github.com/orderof/catalog/pkg/providers"
	"golang.org/x/sync/errgroup"
)

// dedupe drops candidates that can't become items and every repeat of an
// external ID, keeping the first occurrence.
func dedupe(candidates []providers.Candidate) []providers.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]providers.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ExternalID == "" || strings.TrimSpace(c.Title) == "" {
			continue
		}
		if _, ok := seen[c.ExternalID]; ok {
			continue
		}
		seen[c.ExternalID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// releaseSortKey is the candidate's release date, or the empty string when it
// is missing or malformed so that undated candidates sort first.
func releaseSortKey(c providers.Candidate) string {
	d := models.ParseDate(c.ReleaseDate)
	if d == nil {
		return ""
	}
	return d.String()
}

// sortByReleaseDate returns a copy of candidates sorted by release date,
// keeping provider order for ties.
func sortByReleaseDate(candidates []providers.Candidate) []providers.Candidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b providers.Candidate) int {
		return strings.Compare(releaseSortKey(a), releaseSortKey(b))
	})
	return sorted
}

// findCollection fetches the details of the top search results concurrently
// and returns the collection of the highest ranked one that belongs to a
// collection.
func (p *Pipeline) findCollection(ctx context.Context, results []providers.Candidate) string {
	probe := results[:min(len(results), p.collectionProbeLimit)]
	details := make([]*providers.Movie, len(probe))

	var g errgroup.Group
	g.SetLimit(p.probeConcurrency)
	for i, c := range probe {
		g.Go(func() error {
			if movie, ok := p.movies.MovieDetails(ctx, c.ExternalID); ok {
				details[i] = movie
			}
			return nil
		})
	}
	// Detail lookups fail softly, so there's no error to report.
	_ = g.Wait()

	for _, movie := range details {
		if movie != nil && movie.CollectionID != "" {
			return movie.CollectionID
		}
	}
	return ""
}

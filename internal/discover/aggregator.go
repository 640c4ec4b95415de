// Package discover fans search queries out across backends, unwraps
// and filters the raw result URLs, and ranks the surviving candidates.
package discover

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/IshaanNene/MetalScout/internal/search"
	"github.com/IshaanNene/MetalScout/internal/types"
	"github.com/IshaanNene/MetalScout/internal/urlx"
)

// unscoredSampleSize bounds the escape-hatch sample returned when
// scoring eliminates everything but raw candidates exist.
const unscoredSampleSize = 30

// ownPageTokens suggest a business's own informational pages rather
// than a listing or article.
var ownPageTokens = []string{
	"about", "contact", "services", "pricing", "prices",
	"scrap", "metal", "recycl", "salvage",
}

// directoryMarkers suggest an aggregator or listing page.
var directoryMarkers = []string{
	"/listing", "/directory", "/biz/", "/profile/", "/company/",
	"/companies/", "/business/", "/places/",
}

// Aggregator collects, filters, dedupes, and ranks candidates.
type Aggregator struct {
	backends []search.Backend
	resolver *urlx.Resolver
	workers  int
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator. workers bounds the concurrent
// search requests in flight.
func NewAggregator(backends []search.Backend, resolver *urlx.Resolver, workers int, logger *slog.Logger) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		backends: backends,
		resolver: resolver,
		workers:  workers,
		logger:   logger.With("component", "aggregator"),
	}
}

// Aggregate fans every query out to every backend for every page
// index, unwraps and filters the raw URLs, dedupes by host with
// first-seen-wins, and returns candidates sorted by score descending
// with ties broken by discovery order.
//
// Backend failures are logged and contribute zero hits; Aggregate only
// fails on context cancellation.
func (a *Aggregator) Aggregate(ctx context.Context, queries []string, pagesPerQuery int) ([]types.Candidate, error) {
	if pagesPerQuery < 1 {
		pagesPerQuery = 1
	}

	hits := a.collect(ctx, queries, pagesPerQuery)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		candidates []types.Candidate
		rawKept    int
		seenHosts  = make(map[string]bool)
	)
	for _, hit := range hits {
		resolved, err := a.resolver.Resolve(ctx, hit.URL)
		if err != nil {
			continue
		}
		if !urlx.IsUsable(resolved) {
			continue
		}
		rawKept++

		host := urlx.CanonicalHost(resolved)
		if host == "" || seenHosts[host] {
			continue
		}
		seenHosts[host] = true

		candidates = append(candidates, types.Candidate{
			URL:       resolved,
			Host:      host,
			Score:     scoreCandidate(resolved),
			SeenIndex: len(candidates),
		})
	}

	if len(candidates) == 0 {
		a.logger.Warn("no candidates survived filtering",
			"raw_hits", len(hits),
			"usable", rawKept,
		)
		return nil, nil
	}

	scored := 0
	for _, c := range candidates {
		if c.Score > 0 {
			scored++
		}
	}
	// If scoring zeroed everything, hand back a bounded unscored
	// sample instead of nothing.
	if scored == 0 {
		if len(candidates) > unscoredSampleSize {
			candidates = candidates[:unscoredSampleSize]
		}
		a.logger.Info("scoring eliminated all candidates, returning unscored sample",
			"sample", len(candidates),
		)
		return candidates, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].SeenIndex < candidates[j].SeenIndex
	})

	a.logger.Info("aggregation complete",
		"raw_hits", len(hits),
		"candidates", len(candidates),
	)
	return candidates, nil
}

// collect runs the query fan-out with bounded parallelism and returns
// the raw hits in a deterministic (query, backend, page) order.
func (a *Aggregator) collect(ctx context.Context, queries []string, pagesPerQuery int) []types.RawHit {
	type task struct {
		slot    int
		query   string
		qIndex  int
		backend search.Backend
		page    int
	}

	var tasks []task
	for qi, q := range queries {
		for _, b := range a.backends {
			for p := 0; p < pagesPerQuery; p++ {
				tasks = append(tasks, task{
					slot: len(tasks), query: q, qIndex: qi, backend: b, page: p,
				})
			}
		}
	}

	results := make([][]types.RawHit, len(tasks))
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for _, t := range tasks {
		select {
		case <-ctx.Done():
			goto drained
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			defer func() { <-sem }()

			urls, err := t.backend.Search(ctx, t.query, t.page)
			if err != nil {
				a.logger.Warn("search backend failed",
					"backend", t.backend.Name(),
					"query", t.query,
					"page", t.page,
					"error", err,
				)
				return
			}
			hits := make([]types.RawHit, 0, len(urls))
			for _, u := range urls {
				hits = append(hits, types.RawHit{
					URL:        u,
					Backend:    t.backend.Name(),
					QueryIndex: t.qIndex,
					PageIndex:  t.page,
				})
			}
			results[t.slot] = hits
		}(t)
	}

drained:
	wg.Wait()

	var all []types.RawHit
	for _, hits := range results {
		all = append(all, hits...)
	}
	return all
}

// scoreCandidate ranks a normalized URL. Higher scores suggest a
// business's own site: informational path tokens score up, directory
// markers score down, and shorter URLs (likelier homepages) get a
// length bonus.
func scoreCandidate(rawURL string) int {
	lower := strings.ToLower(rawURL)
	score := 0

	for _, token := range ownPageTokens {
		if strings.Contains(lower, token) {
			score += 3
			break
		}
	}

	hasMarker := false
	for _, marker := range directoryMarkers {
		if strings.Contains(lower, marker) {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		score += 2
	}

	if bonus := (50 - len(rawURL)) / 10; bonus > 0 {
		score += bonus
	}

	return score
}

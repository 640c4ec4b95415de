package pipeline

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/search"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// Aggregator produces ranked candidates for a set of queries. The
// discover package provides the production implementation.
type Aggregator interface {
	Aggregate(ctx context.Context, queries []string, pagesPerQuery int) ([]types.Candidate, error)
}

// Enrichment is the refined material/price data an Enricher returns.
type Enrichment struct {
	Materials []string
	Prices    []string
}

// Enricher refines a record's material and price data from page
// context. Implementations may call external services; any failure is
// treated by the Runner as a no-op, never propagated.
type Enricher interface {
	Enrich(ctx context.Context, pageURL string, materials, prices []string) (*Enrichment, error)
}

// Runner drives a full discovery run: build queries, aggregate
// candidates, run the pool, broaden the location when results fall
// short, and optionally enrich the accepted records.
type Runner struct {
	cfg        *config.Config
	aggregator Aggregator
	pool       *Pool
	enricher   Enricher
	logger     *slog.Logger
}

// NewRunner creates a Runner. enricher may be nil.
func NewRunner(cfg *config.Config, agg Aggregator, pool *Pool, enricher Enricher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		aggregator: agg,
		pool:       pool,
		enricher:   enricher,
		logger:     logger.With("component", "runner"),
	}
}

// Run executes the pipeline for a location. When fewer than target
// records come back and broadening is enabled, the location is
// widened stepwise (drop city, then region) and finally the page
// count is raised once. Returns ErrNoResults only when every attempt
// produced nothing.
func (r *Runner) Run(ctx context.Context, loc types.Location) ([]types.CompanyRecord, error) {
	target := r.cfg.Discovery.Target
	pages := r.cfg.Discovery.PagesPerQuery

	var records []types.CompanyRecord
	bumpedPages := false

	for {
		queries := search.BuildQueries(loc)
		r.logger.Info("discovery attempt",
			"place", loc.Display(),
			"queries", len(queries),
			"pages_per_query", pages,
			"have", len(records),
			"target", target,
		)

		candidates, err := r.aggregator.Aggregate(ctx, queries, pages)
		if err != nil {
			return records, err
		}

		got := r.pool.Run(ctx, candidates, loc, target-len(records))
		records = append(records, got...)

		if len(records) >= target || !r.cfg.Discovery.Broaden {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next, ok := loc.Broaden(); ok {
			loc = next
			continue
		}
		if !bumpedPages {
			pages++
			bumpedPages = true
			continue
		}
		break
	}

	if len(records) == 0 {
		return nil, types.ErrNoResults
	}

	r.applyEnrichment(ctx, records)
	return records, nil
}

// applyEnrichment lets the enricher overwrite materials and price
// mentions. Enricher failures leave the record untouched.
func (r *Runner) applyEnrichment(ctx context.Context, records []types.CompanyRecord) {
	if r.enricher == nil {
		return
	}
	for i := range records {
		if ctx.Err() != nil {
			return
		}
		rec := &records[i]
		result, err := r.enricher.Enrich(ctx, rec.Website, rec.Materials, rec.PriceMentions)
		if err != nil || result == nil {
			if err != nil {
				r.logger.Debug("enrichment skipped", "url", rec.Website, "error", err)
			}
			continue
		}
		if len(result.Materials) > 0 {
			rec.Materials = result.Materials
		}
		if len(result.Prices) > 0 {
			rec.PriceMentions = result.Prices
		}
		rec.Cap()
	}
}

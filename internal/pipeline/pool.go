// Package pipeline runs the discovery-to-extraction flow: aggregated
// candidates are fetched and extracted by a bounded worker pool, and
// validated records are collected until a target count is reached.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IshaanNene/MetalScout/internal/extract"
	"github.com/IshaanNene/MetalScout/internal/fetcher"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// Stats tracks pool counters.
type Stats struct {
	Fetched       atomic.Int64
	FetchFailed   atomic.Int64
	Extracted     atomic.Int64
	ExtractFailed atomic.Int64
	Accepted      atomic.Int64
	Rejected      atomic.Int64
	ActiveWorkers atomic.Int32
	StartTime     time.Time
}

// Snapshot returns a copy of stats safe for reading.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"fetched":        s.Fetched.Load(),
		"fetch_failed":   s.FetchFailed.Load(),
		"extracted":      s.Extracted.Load(),
		"extract_failed": s.ExtractFailed.Load(),
		"accepted":       s.Accepted.Load(),
		"rejected":       s.Rejected.Load(),
		"active_workers": s.ActiveWorkers.Load(),
		"elapsed":        time.Since(s.StartTime).String(),
	}
}

// Pool is the bounded fetch-extract worker pool.
type Pool struct {
	fetcher   fetcher.Fetcher
	extractor *extract.Extractor
	validator *Validator
	workers   int
	logger    *slog.Logger

	Stats Stats

	mu      sync.Mutex
	records []types.CompanyRecord
}

// NewPool creates a Pool sharing the given validator. Sharing lets
// repeated runs (broadening attempts) keep one seen-hosts set.
func NewPool(f fetcher.Fetcher, e *extract.Extractor, v *Validator, workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		fetcher:   f,
		extractor: e,
		validator: v,
		workers:   workers,
		logger:    logger.With("component", "pool"),
	}
}

// Run fetches and extracts candidates concurrently until target
// records are accepted or candidates run out. Once the target is hit,
// pending candidates are cancelled; in-flight results past the target
// are discarded.
func (p *Pool) Run(ctx context.Context, candidates []types.Candidate, loc types.Location, target int) []types.CompanyRecord {
	if target < 1 || len(candidates) == 0 {
		return nil
	}
	p.Stats.StartTime = time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan types.Candidate)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				p.Stats.ActiveWorkers.Add(1)
				p.process(ctx, cand, loc, target, cancel)
				p.Stats.ActiveWorkers.Add(-1)
			}
		}()
	}

feed:
	for _, cand := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- cand:
		}
	}
	close(jobs)
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.CompanyRecord, len(p.records))
	copy(out, p.records)
	p.records = p.records[:0]

	p.logger.Info("pool run complete",
		"candidates", len(candidates),
		"accepted", len(out),
		"hosts_claimed", p.validator.SeenCount(),
		"stats", p.Stats.Snapshot(),
	)
	return out
}

// process runs one candidate through fetch, extract, and validate.
// Every failure mode drops the candidate without aborting the run.
func (p *Pool) process(ctx context.Context, cand types.Candidate, loc types.Location, target int, cancel context.CancelFunc) {
	if ctx.Err() != nil {
		return
	}

	page, err := p.fetcher.Fetch(ctx, cand.URL)
	if err != nil || !page.IsSuccess() {
		p.Stats.FetchFailed.Add(1)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Debug("fetch failed", "url", cand.URL, "error", err)
		}
		return
	}
	p.Stats.Fetched.Add(1)

	rec, err := p.extractor.Extract(ctx, page, loc)
	if err != nil || rec == nil {
		p.Stats.ExtractFailed.Add(1)
		return
	}
	p.Stats.Extracted.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.records) >= target || ctx.Err() != nil {
		return
	}
	if err := p.validator.Accept(rec); err != nil {
		p.Stats.Rejected.Add(1)
		p.logger.Debug("record rejected", "url", cand.URL, "reason", err)
		return
	}
	p.records = append(p.records, *rec)
	p.Stats.Accepted.Add(1)
	if len(p.records) >= target {
		cancel()
	}
}

// Package metalscout provides a public SDK for embedding the
// discovery pipeline as a library.
//
// Example usage:
//
//	client, err := metalscout.New(
//	    metalscout.WithTarget(25),
//	    metalscout.WithEngines("bing", "ddg"),
//	    metalscout.WithWorkers(8),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	records, err := client.DiscoverAndExtract(ctx, metalscout.Location{
//	    Country: "USA", Region: "Texas", City: "Houston",
//	})
package metalscout

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/discover"
	"github.com/IshaanNene/MetalScout/internal/enrich"
	"github.com/IshaanNene/MetalScout/internal/extract"
	"github.com/IshaanNene/MetalScout/internal/fetcher"
	"github.com/IshaanNene/MetalScout/internal/pipeline"
	"github.com/IshaanNene/MetalScout/internal/search"
	"github.com/IshaanNene/MetalScout/internal/types"
	"github.com/IshaanNene/MetalScout/internal/urlx"
)

// Location identifies the area to search.
type Location = types.Location

// CompanyRecord is an extracted business record.
type CompanyRecord = types.CompanyRecord

// ErrNoResults is returned when every attempt produced nothing.
var ErrNoResults = types.ErrNoResults

// Client is the high-level API for running discovery as a library.
type Client struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher *fetcher.HTTPFetcher
	runner  *pipeline.Runner
}

// Option configures a Client.
type Option func(*config.Config)

// WithTarget sets the accepted-record target.
func WithTarget(n int) Option {
	return func(c *config.Config) { c.Discovery.Target = n }
}

// WithWorkers sets the fetch-extract worker count.
func WithWorkers(n int) Option {
	return func(c *config.Config) { c.Discovery.MaxWorkers = n }
}

// WithPagesPerQuery sets how many result pages each backend is asked for.
func WithPagesPerQuery(n int) Option {
	return func(c *config.Config) { c.Discovery.PagesPerQuery = n }
}

// WithEngines selects the search backends by name.
func WithEngines(names ...string) Option {
	return func(c *config.Config) { c.Search.Engines = names }
}

// WithBroadening toggles the location-broadening ladder.
func WithBroadening(enabled bool) Option {
	return func(c *config.Config) { c.Discovery.Broaden = enabled }
}

// WithEnrichment enables LLM enrichment against the given provider.
func WithEnrichment(provider, endpoint, model, apiKey string) Option {
	return func(c *config.Config) {
		c.Enrich.Enabled = true
		c.Enrich.Provider = provider
		c.Enrich.Endpoint = endpoint
		c.Enrich.Model = model
		c.Enrich.APIKey = apiKey
	}
}

// New creates a Client from defaults plus options, logging to stderr
// at info level. Use NewWithConfig for full control.
func New(opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates a Client from a full configuration.
func NewWithConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	httpFetcher, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	backends, err := search.FromConfig(cfg, httpFetcher, logger)
	if err != nil {
		httpFetcher.Close()
		return nil, err
	}

	resolver := urlx.NewResolver(&http.Client{Timeout: cfg.Search.RequestTimeout})
	aggregator := discover.NewAggregator(backends, resolver, cfg.Discovery.SearchWorkers, logger)

	extractor := extract.NewExtractor(&cfg.Extractor, httpFetcher, logger)
	validator := pipeline.NewValidator()
	pool := pipeline.NewPool(httpFetcher, extractor, validator, cfg.Discovery.MaxWorkers, logger)

	var enricher pipeline.Enricher
	if cfg.Enrich.Enabled {
		enricher = enrich.NewLLMEnricher(cfg.Enrich, logger)
	}

	runner := pipeline.NewRunner(cfg, aggregator, pool, enricher, logger)

	return &Client{
		cfg:     cfg,
		logger:  logger,
		fetcher: httpFetcher,
		runner:  runner,
	}, nil
}

// DiscoverAndExtract runs the full pipeline for a location and
// returns the accepted records.
func (c *Client) DiscoverAndExtract(ctx context.Context, loc Location) ([]CompanyRecord, error) {
	return c.runner.Run(ctx, loc)
}

// Config returns the client's configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Close releases network resources.
func (c *Client) Close() error {
	return c.fetcher.Close()
}

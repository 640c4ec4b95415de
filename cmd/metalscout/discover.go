package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/storage"
	"github.com/IshaanNene/MetalScout/internal/types"
	"github.com/IshaanNene/MetalScout/pkg/metalscout"
)

var (
	flagCountry string
	flagRegion  string
	flagCity    string
	flagTarget  int
	flagPages   int
	flagWorkers int
	flagEngines []string
	flagFormat  string
	flagOutput  string
	flagEnrich  bool
	flagNoBroad bool
)

// discoverCmd creates the "discover" subcommand.
func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover scrap metal businesses for a location",
		Long: `Discover runs the full pipeline for one location: builds search queries,
aggregates and ranks candidate websites, fetches and extracts company
records concurrently, and writes results to the configured storage.

Examples:
  metalscout discover --country USA --region Texas --city Houston
  metalscout discover --country UK --target 25 --format csv --output scrap.csv
  metalscout discover --country Canada --engines ddg --enrich`,
		RunE: runDiscover,
	}

	cmd.Flags().StringVar(&flagCountry, "country", "", "country to search (required)")
	cmd.Flags().StringVar(&flagRegion, "region", "", "state or region")
	cmd.Flags().StringVar(&flagCity, "city", "", "city")
	cmd.Flags().IntVarP(&flagTarget, "target", "t", 0, "number of records to collect")
	cmd.Flags().IntVar(&flagPages, "pages", 0, "search result pages per query")
	cmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "concurrent fetch workers")
	cmd.Flags().StringSliceVar(&flagEngines, "engines", nil, "search engines (bing, ddg, webapi)")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format (json, jsonl, csv, mongo)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&flagEnrich, "enrich", false, "enable LLM enrichment")
	cmd.Flags().BoolVar(&flagNoBroad, "no-broaden", false, "disable location broadening")
	cmd.MarkFlagRequired("country")

	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyCLIOverrides(cfg)

	logger := setupLogger(&cfg.Logging)

	client, err := metalscout.NewWithConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing client: %w", err)
	}
	defer client.Close()

	store, err := storage.FromConfig(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, stopping")
		cancel()
	}()

	loc := types.Location{
		Country: flagCountry,
		Region:  flagRegion,
		City:    flagCity,
	}

	logger.Info("starting discovery",
		"location", loc.Display(),
		"target", cfg.Discovery.Target,
		"engines", strings.Join(cfg.Search.Engines, ","))

	start := time.Now()
	records, err := client.DiscoverAndExtract(ctx, loc)
	if err != nil {
		if errors.Is(err, types.ErrNoResults) {
			fmt.Println("No businesses found for this location.")
			return nil
		}
		return fmt.Errorf("discovery failed: %w", err)
	}

	if err := store.Store(records); err != nil {
		return fmt.Errorf("storing results: %w", err)
	}

	withPhone := 0
	withEmail := 0
	for _, rec := range records {
		if len(rec.Phones) > 0 {
			withPhone++
		}
		if len(rec.Emails) > 0 {
			withEmail++
		}
	}

	fmt.Printf("\n✅ Discovery complete\n")
	fmt.Printf("   Records:    %d\n", len(records))
	fmt.Printf("   With phone: %d\n", withPhone)
	fmt.Printf("   With email: %d\n", withEmail)
	fmt.Printf("   Storage:    %s\n", store.Name())
	fmt.Printf("   Duration:   %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// applyCLIOverrides applies command line flags over the loaded config.
func applyCLIOverrides(cfg *config.Config) {
	if flagTarget > 0 {
		cfg.Discovery.Target = flagTarget
	}
	if flagPages > 0 {
		cfg.Discovery.PagesPerQuery = flagPages
	}
	if flagWorkers > 0 {
		cfg.Discovery.MaxWorkers = flagWorkers
	}
	if len(flagEngines) > 0 {
		cfg.Search.Engines = flagEngines
	}
	if flagFormat != "" {
		cfg.Storage.Type = flagFormat
	}
	if flagOutput != "" {
		cfg.Storage.OutputPath = flagOutput
	}
	if flagEnrich {
		cfg.Enrich.Enabled = true
	}
	if flagNoBroad {
		cfg.Discovery.Broaden = false
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

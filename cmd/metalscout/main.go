package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/MetalScout/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "metalscout",
		Short: "MetalScout — scrap metal business discovery and extraction",
		Long: `MetalScout finds scrap metal businesses for a location and extracts
structured company records from their websites.

Features:
  • Multi-backend web search (Bing, DuckDuckGo, JSON search APIs)
  • Redirect unwrapping and aggregator filtering
  • Concurrent bounded fetch-and-extract with a hard result target
  • Layered extraction: JSON-LD → HTML heuristics → regex fallbacks
  • Region-aware phone validation, materials and price detection
  • JSON, JSONL, CSV, and MongoDB output
  • Optional LLM enrichment of materials and prices`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("MetalScout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Discovery:\n")
			fmt.Printf("  Target:            %d\n", cfg.Discovery.Target)
			fmt.Printf("  Pages Per Query:   %d\n", cfg.Discovery.PagesPerQuery)
			fmt.Printf("  Max Workers:       %d\n", cfg.Discovery.MaxWorkers)
			fmt.Printf("  Search Workers:    %d\n", cfg.Discovery.SearchWorkers)
			fmt.Printf("  Broaden:           %v\n", cfg.Discovery.Broaden)
			fmt.Printf("\nSearch:\n")
			fmt.Printf("  Engines:           %v\n", cfg.Search.Engines)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Search.RequestTimeout)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Page Timeout:      %s\n", cfg.Fetcher.PageTimeout)
			fmt.Printf("  Max Retries:       %d\n", cfg.Fetcher.MaxRetries)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nExtractor:\n")
			fmt.Printf("  Materials:         %d keywords\n", len(cfg.Extractor.Materials))
			fmt.Printf("  Default Region:    %s\n", cfg.Extractor.DefaultRegion)
			fmt.Printf("  Max Contact Pages: %d\n", cfg.Extractor.MaxContactPages)
			fmt.Printf("\nEnrich:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Enrich.Enabled)
			fmt.Printf("  Provider:          %s\n", cfg.Enrich.Provider)
			fmt.Printf("  Model:             %s\n", cfg.Enrich.Model)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
